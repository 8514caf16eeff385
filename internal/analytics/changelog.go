package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/repopulse/repopulse-go/internal/models"
)

// ChangelogEntry is one synthesized changelog line. Entries sourced from a
// merged PR carry its number; entries sourced from a commit carry its
// short sha.
type ChangelogEntry struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	At          time.Time `json:"at"`
	PRNumber    int       `json:"pr_number,omitempty"`
	SHA         string    `json:"sha,omitempty"`
}

// ChangelogReport groups entries by category. Categories follow a fixed
// priority order (feat, fix, then the rest alphabetically); entries within
// a category are most recent first.
type ChangelogReport struct {
	Window     models.Window    `json:"window"`
	Categories []string         `json:"categories"`
	Entries    []ChangelogEntry `json:"entries"`
}

// SynthesizeChangelog builds ordered changelog entries from merged pull
// requests and commits in the window. PR titles win over commit subjects;
// near-duplicate descriptions are collapsed, keeping the first occurrence
// in category order.
func SynthesizeChangelog(ctx context.Context, h *models.History, window models.Window, opts Options) (*ChangelogReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	prefixes, order := opts.categories()

	var entries []ChangelogEntry
	for i := range h.PullRequests {
		pr := &h.PullRequests[i]
		if pr.MergedAt == nil || !window.Contains(*pr.MergedAt) {
			continue
		}
		entries = append(entries, ChangelogEntry{
			Category:    inferCategory(pr.Title, prefixes),
			Description: strings.TrimSpace(pr.Title),
			Author:      pr.Author,
			At:          *pr.MergedAt,
			PRNumber:    pr.Number,
		})
	}

	for i := range h.Commits {
		if i%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: changelog: %v", ErrCanceled, err)
			}
		}
		c := &h.Commits[i]
		if !window.Contains(c.AuthoredAt) {
			continue
		}
		subject := c.Subject()
		if strings.HasPrefix(subject, "Merge ") || len(subject) < 10 {
			continue
		}
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		entries = append(entries, ChangelogEntry{
			Category:    inferCategory(subject, prefixes),
			Description: subject,
			Author:      c.Author,
			At:          c.AuthoredAt,
			SHA:         sha,
		})
	}

	rank := make(map[string]int, len(order))
	for i, cat := range order {
		rank[cat] = i
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return rank[entries[i].Category] < rank[entries[j].Category]
		}
		if !entries[i].At.Equal(entries[j].At) {
			return entries[i].At.After(entries[j].At)
		}
		// PR entries outrank commit entries at the same instant.
		return entries[i].PRNumber > entries[j].PRNumber
	})

	return &ChangelogReport{
		Window:     window,
		Categories: order,
		Entries:    dedupeEntries(entries),
	}, nil
}

// inferCategory parses a conventional-commit prefix: the text before the
// first colon, with any "(scope)" and breaking-change "!" stripped.
// Unmatched text lands in the "other" bucket.
func inferCategory(title string, prefixes map[string]string) string {
	head, _, found := strings.Cut(title, ":")
	if !found {
		return "other"
	}
	head = strings.TrimSpace(head)
	if i := strings.IndexByte(head, '('); i >= 0 {
		head = head[:i]
	}
	head = strings.TrimSuffix(strings.TrimSpace(head), "!")
	if cat, ok := prefixes[strings.ToLower(head)]; ok {
		return cat
	}
	return "other"
}

func dedupeEntries(entries []ChangelogEntry) []ChangelogEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		key := strings.ToLower(e.Description)
		if len(key) > 60 {
			key = key[:60]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// Markdown renders the report grouped by category.
func (r *ChangelogReport) Markdown() string {
	byCat := make(map[string][]ChangelogEntry)
	for _, e := range r.Entries {
		byCat[e.Category] = append(byCat[e.Category], e)
	}

	var b strings.Builder
	b.WriteString("# Changelog\n")
	for _, cat := range r.Categories {
		items := byCat[cat]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", cat)
		for _, e := range items {
			ref := ""
			switch {
			case e.PRNumber > 0:
				ref = fmt.Sprintf(" (#%d)", e.PRNumber)
			case e.SHA != "":
				ref = fmt.Sprintf(" (%s)", e.SHA)
			}
			author := ""
			if e.Author != "" {
				author = " — @" + e.Author
			}
			fmt.Fprintf(&b, "- %s%s%s\n", e.Description, ref, author)
		}
	}
	return b.String()
}
