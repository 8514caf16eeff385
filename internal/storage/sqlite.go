package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/repopulse/repopulse-go/internal/analytics"
)

// SQLiteStore implements snapshot storage using SQLite (the local default).
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens (or creates) a SQLite snapshot store at path.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		repo TEXT NOT NULL,
		window_start DATETIME NOT NULL,
		window_end DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_repo ON snapshots(repo, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *analytics.Snapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, repo, window_start, window_end, created_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, snap.Repo, snap.Window.Start, snap.Window.End, time.Now().UTC(), string(payload))
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":   id,
		"repo": snap.Repo,
	}).Debug("snapshot saved")
	return id, nil
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, id string) (*SnapshotRecord, error) {
	var row struct {
		SnapshotRecord
		Payload string `db:"payload"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT id, repo, window_start, window_end, created_at, payload FROM snapshots WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap analytics.Snapshot
	if err := json.Unmarshal([]byte(row.Payload), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	rec := row.SnapshotRecord
	rec.Snapshot = &snap
	return &rec, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, repo string, limit int) ([]*SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []*SnapshotRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT id, repo, window_start, window_end, created_at FROM snapshots
		 WHERE repo = ? ORDER BY created_at DESC LIMIT ?`, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
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

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
