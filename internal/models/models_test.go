package models

import (
	"testing"
	"time"
)

func TestWindowHalfOpen(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	w, err := NewWindow(start, end)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"start is inclusive", start, true},
		{"end is exclusive", end, false},
		{"interior", start.Add(12 * time.Hour), true},
		{"before start", start.Add(-time.Second), false},
		{"after end", end.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestWindowAdjacentDoesNotDoubleCount(t *testing.T) {
	boundary := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a, _ := NewWindow(boundary.AddDate(0, -1, 0), boundary)
	b, _ := NewWindow(boundary, boundary.AddDate(0, 1, 0))

	if a.Contains(boundary) {
		t.Error("earlier window must not contain the shared boundary")
	}
	if !b.Contains(boundary) {
		t.Error("later window must contain the shared boundary")
	}
	if a.Overlaps(b) {
		t.Error("adjacent windows must not overlap")
	}
}

func TestNewWindowRejectsInverted(t *testing.T) {
	at := time.Now()
	if _, err := NewWindow(at, at); err == nil {
		t.Error("expected error for zero-length window")
	}
	if _, err := NewWindow(at.Add(time.Hour), at); err == nil {
		t.Error("expected error for inverted window")
	}
}

func TestContributorKey(t *testing.T) {
	tests := []struct {
		name                string
		login, email, dname string
		want                string
	}{
		{"login wins", "alice", "alice@example.com", "Alice A", "alice"},
		{"email fallback", "", "Alice@Example.com", "Alice A", "alice@example.com"},
		{"name fallback", "", "", "Alice A", "Alice A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContributorKey(tt.login, tt.email, tt.dname); got != tt.want {
				t.Errorf("ContributorKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFolderAt(t *testing.T) {
	tests := []struct {
		path  string
		depth int
		want  string
	}{
		{"src/core/a.py", 1, "src"},
		{"src/core/a.py", 2, "src/core"},
		{"src/core/deep/a.py", 2, "src/core"},
		{"README.md", 1, "."},
		{"src/a.py", 3, "src"},
	}
	for _, tt := range tests {
		if got := FolderAt(tt.path, tt.depth); got != tt.want {
			t.Errorf("FolderAt(%q, %d) = %q, want %q", tt.path, tt.depth, got, tt.want)
		}
	}
}
