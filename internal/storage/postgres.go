package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/repopulse/repopulse-go/internal/analytics"
)

// PostgresStore implements snapshot storage using PostgreSQL, for teams
// sharing one snapshot history.
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists.
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id UUID PRIMARY KEY,
		repo TEXT NOT NULL,
		window_start TIMESTAMPTZ NOT NULL,
		window_end TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		payload JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_repo ON snapshots(repo, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *analytics.Snapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, repo, window_start, window_end, created_at, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, snap.Repo, snap.Window.Start, snap.Window.End, time.Now().UTC(), payload)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":   id,
		"repo": snap.Repo,
	}).Debug("snapshot saved")
	return id, nil
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, id string) (*SnapshotRecord, error) {
	var row struct {
		SnapshotRecord
		Payload []byte `db:"payload"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT id, repo, window_start, window_end, created_at, payload FROM snapshots WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap analytics.Snapshot
	if err := json.Unmarshal(row.Payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	rec := row.SnapshotRecord
	rec.Snapshot = &snap
	return &rec, nil
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, repo string, limit int) ([]*SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []*SnapshotRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT id, repo, window_start, window_end, created_at FROM snapshots
		 WHERE repo = $1 ORDER BY created_at DESC LIMIT $2`, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
