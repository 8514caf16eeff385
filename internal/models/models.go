package models

import (
	"fmt"
	"strings"
	"time"
)

// ReviewVerdict is the outcome of a single pull request review.
type ReviewVerdict string

const (
	VerdictApprove        ReviewVerdict = "APPROVED"
	VerdictRequestChanges ReviewVerdict = "CHANGES_REQUESTED"
	VerdictComment        ReviewVerdict = "COMMENTED"
)

// PRState is the lifecycle state of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateMerged PRState = "merged"
	PRStateClosed PRState = "closed"
)

// Commit is a single normalized commit. Entities are built once by the
// normalizer and never mutated afterwards; downstream code treats them as
// read-only.
type Commit struct {
	SHA          string    `json:"sha"`
	Author       string    `json:"author"`
	AuthorName   string    `json:"author_name,omitempty"`
	AuthorEmail  string    `json:"author_email,omitempty"`
	Message      string    `json:"message"`
	AuthoredAt   time.Time `json:"authored_at"`
	FilesChanged []string  `json:"files_changed"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return strings.TrimSpace(c.Message[:i])
	}
	return strings.TrimSpace(c.Message)
}

// Review is a single review left on a pull request.
type Review struct {
	Reviewer    string        `json:"reviewer"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Verdict     ReviewVerdict `json:"verdict"`
}

// PullRequest is a normalized pull request with its ordered reviews.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	State     PRState    `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Reviews   []Review   `json:"reviews,omitempty"`
}

// Merged reports whether the pull request was merged.
func (pr *PullRequest) Merged() bool {
	return pr.MergedAt != nil
}

// Issue is a normalized issue.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Labels    []string   `json:"labels,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Branch is a normalized branch ref with its divergence from the default
// branch.
type Branch struct {
	Name         string    `json:"name"`
	HeadSHA      string    `json:"head_sha"`
	LastActivity time.Time `json:"last_activity"`
	AheadBy      int       `json:"ahead_by"`
	BehindBy     int       `json:"behind_by"`
	Merged       bool      `json:"merged"`
}

// History is the canonical normalized view of a repository's activity.
// All analysis functions consume it read-only.
type History struct {
	Repo          string        `json:"repo"`
	DefaultBranch string        `json:"default_branch"`
	Commits       []Commit      `json:"commits"`
	PullRequests  []PullRequest `json:"pull_requests"`
	Issues        []Issue       `json:"issues"`
	Branches      []Branch      `json:"branches"`
}

// Window is a half-open analysis interval [Start, End). The half-open
// boundary means a record landing exactly on the edge shared by two
// adjacent windows is counted exactly once.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a window and rejects inverted bounds.
func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, fmt.Errorf("window start %s must precede end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Overlaps reports whether two windows share any instant.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Label is a human-readable form used in report headers.
func (w Window) Label() string {
	return fmt.Sprintf("%s → %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// ContributorKey derives the stable contributor identity: login when known,
// falling back to email, falling back to display name.
func ContributorKey(login, email, name string) string {
	if login != "" {
		return login
	}
	if email != "" {
		return strings.ToLower(email)
	}
	return name
}

// FolderAt rolls a file path up to its ancestor at the given depth. Paths
// shallower than the depth map to their own directory; files at the
// repository root map to ".".
func FolderAt(path string, depth int) string {
	if depth < 1 {
		depth = 1
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 {
		return "."
	}
	// The last element is the file name, never part of the folder.
	dirs := parts[:len(parts)-1]
	if len(dirs) > depth {
		dirs = dirs[:depth]
	}
	return strings.Join(dirs, "/")
}
