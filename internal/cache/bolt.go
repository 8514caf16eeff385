// Package cache persists raw fetch results between runs so repeat
// analyses of the same repository skip the GitHub API.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/repopulse/repopulse-go/internal/ingest"
)

const (
	historyBucket = "raw_history"
	metaBucket    = "fetch_meta"
)

// Cache is a bbolt-backed page cache for raw repository history. Entries
// older than TTL are treated as misses.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration
}

// Open opens (or creates) the cache file at path. A TTL of zero means
// entries never expire.
func Open(path string, ttl time.Duration) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached history for repo, reporting whether a fresh
// entry was found.
func (c *Cache) Get(repo string) (ingest.RawHistory, bool, error) {
	var raw ingest.RawHistory
	found := false

	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(repo))
		if data == nil {
			return nil
		}
		if c.ttl > 0 {
			meta := tx.Bucket([]byte(metaBucket))
			if meta == nil {
				return nil
			}
			storedAt, err := time.Parse(time.RFC3339, string(meta.Get([]byte(repo))))
			if err != nil || time.Since(storedAt) > c.ttl {
				return nil
			}
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode cached history: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return ingest.RawHistory{}, false, err
	}
	return raw, found, nil
}

// Put stores the history for repo, stamping it with the current time.
func (c *Cache) Put(repo string, raw ingest.RawHistory) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(repo), data); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		return meta.Put([]byte(repo), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// Evict removes the cached entry for repo, if any.
func (c *Cache) Evict(repo string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket([]byte(historyBucket)); bucket != nil {
			if err := bucket.Delete([]byte(repo)); err != nil {
				return err
			}
		}
		if meta := tx.Bucket([]byte(metaBucket)); meta != nil {
			return meta.Delete([]byte(repo))
		}
		return nil
	})
}
