package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/repopulse/repopulse-go/internal/ingest"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "pulse.db"), ttl)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t, 0)

	raw := ingest.RawHistory{
		Repo:          "acme/widgets",
		DefaultBranch: "main",
		Commits: []ingest.RawCommit{
			{SHA: "abc", AuthorLogin: "alice", Message: "feat: x", AuthoredAt: "2025-05-01T10:00:00Z"},
		},
		Complete: true,
	}
	if err := c.Put("acme/widgets", raw); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := c.Get("acme/widgets")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if got.Repo != raw.Repo || len(got.Commits) != 1 || got.Commits[0].SHA != "abc" {
		t.Errorf("got %+v, want stored history back", got)
	}
}

func TestCacheMissAndEvict(t *testing.T) {
	c := openTestCache(t, 0)

	if _, found, err := c.Get("acme/unknown"); err != nil || found {
		t.Fatalf("get unknown: found=%v err=%v, want miss", found, err)
	}

	if err := c.Put("acme/widgets", ingest.RawHistory{Repo: "acme/widgets"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Evict("acme/widgets"); err != nil {
		t.Fatalf("evict: %v", err)
	}
	if _, found, _ := c.Get("acme/widgets"); found {
		t.Error("expected miss after evict")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := openTestCache(t, time.Nanosecond)

	if err := c.Put("acme/widgets", ingest.RawHistory{Repo: "acme/widgets"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, found, _ := c.Get("acme/widgets"); found {
		t.Error("expected entry older than TTL to miss")
	}
}
