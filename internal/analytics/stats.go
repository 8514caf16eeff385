package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/repopulse/repopulse-go/internal/models"
)

// ContributorStats is the per-contributor activity record for one window.
// A contributor with zero in-window activity is omitted from the report
// entirely; callers treat "absent" as "zero".
type ContributorStats struct {
	Contributor    string     `json:"contributor"`
	Commits        int        `json:"commits"`
	LinesAdded     int        `json:"lines_added"`
	LinesRemoved   int        `json:"lines_removed"`
	PRsOpened      int        `json:"prs_opened"`
	PRsMerged      int        `json:"prs_merged"`
	IssuesOpened   int        `json:"issues_opened"`
	FoldersTouched []string   `json:"folders_touched,omitempty"`
	FirstCommitAt  *time.Time `json:"first_commit_at,omitempty"`
	LastCommitAt   *time.Time `json:"last_commit_at,omitempty"`
}

// StatsReport aggregates contributor activity over a single window,
// ordered by commit count descending, identity ascending on ties.
type StatsReport struct {
	Window       models.Window      `json:"window"`
	Contributors []ContributorStats `json:"contributors"`
}

// TotalCommits sums commit counts across all contributors.
func (r *StatsReport) TotalCommits() int {
	total := 0
	for _, c := range r.Contributors {
		total += c.Commits
	}
	return total
}

// TotalLinesChanged sums added plus removed lines across all contributors.
func (r *StatsReport) TotalLinesChanged() int {
	total := 0
	for _, c := range r.Contributors {
		total += c.LinesAdded + c.LinesRemoved
	}
	return total
}

// Lookup returns the stats for one contributor, nil when absent.
func (r *StatsReport) Lookup(contributor string) *ContributorStats {
	for i := range r.Contributors {
		if r.Contributors[i].Contributor == contributor {
			return &r.Contributors[i]
		}
	}
	return nil
}

// ComputeContributorStats aggregates per-contributor activity restricted
// to entities whose relevant timestamp falls inside the window: a commit's
// authored time, a PR's created time (opened) or merged time (merged), an
// issue's created time.
func ComputeContributorStats(ctx context.Context, h *models.History, window models.Window, opts Options) (*StatsReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	type acc struct {
		stats   ContributorStats
		folders map[string]bool
	}
	byKey := make(map[string]*acc)
	get := func(key string) *acc {
		a, ok := byKey[key]
		if !ok {
			a = &acc{stats: ContributorStats{Contributor: key}, folders: make(map[string]bool)}
			byKey[key] = a
		}
		return a
	}

	for i := range h.Commits {
		if i%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: contributor stats: %v", ErrCanceled, err)
			}
		}
		c := &h.Commits[i]
		if !window.Contains(c.AuthoredAt) {
			continue
		}
		a := get(c.Author)
		a.stats.Commits++
		a.stats.LinesAdded += c.Additions
		a.stats.LinesRemoved += c.Deletions
		for _, fp := range c.FilesChanged {
			a.folders[models.FolderAt(fp, opts.FolderDepth)] = true
		}
		at := c.AuthoredAt
		if a.stats.FirstCommitAt == nil || at.Before(*a.stats.FirstCommitAt) {
			a.stats.FirstCommitAt = &at
		}
		if a.stats.LastCommitAt == nil || at.After(*a.stats.LastCommitAt) {
			a.stats.LastCommitAt = &at
		}
	}

	for i := range h.PullRequests {
		pr := &h.PullRequests[i]
		if window.Contains(pr.CreatedAt) {
			get(pr.Author).stats.PRsOpened++
		}
		if pr.MergedAt != nil && window.Contains(*pr.MergedAt) {
			get(pr.Author).stats.PRsMerged++
		}
	}

	for i := range h.Issues {
		is := &h.Issues[i]
		if window.Contains(is.CreatedAt) {
			get(is.Author).stats.IssuesOpened++
		}
	}

	out := make([]ContributorStats, 0, len(byKey))
	for _, a := range byKey {
		folders := make([]string, 0, len(a.folders))
		for f := range a.folders {
			folders = append(folders, f)
		}
		sort.Strings(folders)
		a.stats.FoldersTouched = folders
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Contributor < out[j].Contributor
	})

	return &StatsReport{Window: window, Contributors: out}, nil
}

// cancelCheckStride bounds how often hot loops poll for cancellation.
const cancelCheckStride = 256
