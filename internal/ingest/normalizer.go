package ingest

import (
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/repopulse/repopulse-go/internal/models"
)

// SkipCounts records how many raw records the normalizer dropped, by kind.
// Dropped records are never fatal; they are surfaced so callers can log or
// display them.
type SkipCounts struct {
	Commits      int `json:"commits"`
	PullRequests int `json:"pull_requests"`
	Issues       int `json:"issues"`
	Branches     int `json:"branches"`
	Reviews      int `json:"reviews"`
}

// Total returns the number of dropped records across all kinds.
func (s SkipCounts) Total() int {
	return s.Commits + s.PullRequests + s.Issues + s.Branches + s.Reviews
}

// Normalizer converts raw fetch output into canonical history. It is
// stateless; a zero value with a logger attached is ready to use.
type Normalizer struct {
	logger *logrus.Logger
}

func NewNormalizer(logger *logrus.Logger) *Normalizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Normalizer{logger: logger}
}

// Normalize produces canonical history from raw records. Records with an
// unparseable required timestamp or a missing identifier are dropped and
// counted. Duplicate identifiers keep the first occurrence in discovery
// order. Output ordering is deterministic regardless of input order:
// commits by (AuthoredAt, SHA), pull requests and issues by number,
// branches by name.
func (n *Normalizer) Normalize(raw RawHistory) (models.History, SkipCounts) {
	var skipped SkipCounts

	h := models.History{
		Repo:          raw.Repo,
		DefaultBranch: raw.DefaultBranch,
	}
	if h.DefaultBranch == "" {
		h.DefaultBranch = "main"
	}

	seenSHA := make(map[string]bool, len(raw.Commits))
	for _, rc := range raw.Commits {
		if rc.SHA == "" || seenSHA[rc.SHA] {
			skipped.Commits++
			continue
		}
		at, ok := parseTime(rc.AuthoredAt)
		if !ok {
			n.logger.WithField("sha", rc.SHA).Debug("dropping commit with unparseable timestamp")
			skipped.Commits++
			continue
		}
		seenSHA[rc.SHA] = true
		h.Commits = append(h.Commits, models.Commit{
			SHA:          rc.SHA,
			Author:       models.ContributorKey(rc.AuthorLogin, rc.AuthorEmail, rc.AuthorName),
			AuthorName:   rc.AuthorName,
			AuthorEmail:  rc.AuthorEmail,
			Message:      rc.Message,
			AuthoredAt:   at,
			FilesChanged: append([]string(nil), rc.Files...),
			Additions:    rc.Additions,
			Deletions:    rc.Deletions,
		})
	}
	sort.Slice(h.Commits, func(i, j int) bool {
		if !h.Commits[i].AuthoredAt.Equal(h.Commits[j].AuthoredAt) {
			return h.Commits[i].AuthoredAt.Before(h.Commits[j].AuthoredAt)
		}
		return h.Commits[i].SHA < h.Commits[j].SHA
	})

	seenPR := make(map[int]bool, len(raw.PullRequests))
	for _, rp := range raw.PullRequests {
		if rp.Number <= 0 || seenPR[rp.Number] {
			skipped.PullRequests++
			continue
		}
		created, ok := parseTime(rp.CreatedAt)
		if !ok {
			n.logger.WithField("pr", rp.Number).Debug("dropping pull request with unparseable timestamp")
			skipped.PullRequests++
			continue
		}
		seenPR[rp.Number] = true
		pr := models.PullRequest{
			Number:    rp.Number,
			Title:     rp.Title,
			Author:    models.ContributorKey(rp.AuthorLogin, "", ""),
			State:     models.PRState(strings.ToLower(rp.State)),
			CreatedAt: created,
			MergedAt:  parseOptionalTime(rp.MergedAt),
			ClosedAt:  parseOptionalTime(rp.ClosedAt),
		}
		for _, rr := range rp.Reviews {
			at, ok := parseTime(rr.SubmittedAt)
			if !ok || rr.ReviewerLogin == "" {
				skipped.Reviews++
				continue
			}
			pr.Reviews = append(pr.Reviews, models.Review{
				Reviewer:    models.ContributorKey(rr.ReviewerLogin, "", ""),
				SubmittedAt: at,
				Verdict:     models.ReviewVerdict(strings.ToUpper(rr.State)),
			})
		}
		sort.Slice(pr.Reviews, func(i, j int) bool {
			if !pr.Reviews[i].SubmittedAt.Equal(pr.Reviews[j].SubmittedAt) {
				return pr.Reviews[i].SubmittedAt.Before(pr.Reviews[j].SubmittedAt)
			}
			return pr.Reviews[i].Reviewer < pr.Reviews[j].Reviewer
		})
		h.PullRequests = append(h.PullRequests, pr)
	}
	sort.Slice(h.PullRequests, func(i, j int) bool {
		return h.PullRequests[i].Number < h.PullRequests[j].Number
	})

	seenIssue := make(map[int]bool, len(raw.Issues))
	for _, ri := range raw.Issues {
		if ri.Number <= 0 || seenIssue[ri.Number] {
			skipped.Issues++
			continue
		}
		created, ok := parseTime(ri.CreatedAt)
		if !ok {
			skipped.Issues++
			continue
		}
		seenIssue[ri.Number] = true
		h.Issues = append(h.Issues, models.Issue{
			Number:    ri.Number,
			Title:     ri.Title,
			Author:    models.ContributorKey(ri.AuthorLogin, "", ""),
			Labels:    append([]string(nil), ri.Labels...),
			CreatedAt: created,
			ClosedAt:  parseOptionalTime(ri.ClosedAt),
		})
	}
	sort.Slice(h.Issues, func(i, j int) bool {
		return h.Issues[i].Number < h.Issues[j].Number
	})

	seenBranch := make(map[string]bool, len(raw.Branches))
	for _, rb := range raw.Branches {
		if rb.Name == "" || seenBranch[rb.Name] {
			skipped.Branches++
			continue
		}
		last, ok := parseTime(rb.LastActivity)
		if !ok {
			skipped.Branches++
			continue
		}
		seenBranch[rb.Name] = true
		h.Branches = append(h.Branches, models.Branch{
			Name:         rb.Name,
			HeadSHA:      rb.HeadSHA,
			LastActivity: last,
			AheadBy:      rb.AheadBy,
			BehindBy:     rb.BehindBy,
			Merged:       rb.Merged,
		})
	}
	sort.Slice(h.Branches, func(i, j int) bool {
		return h.Branches[i].Name < h.Branches[j].Name
	})

	if skipped.Total() > 0 {
		n.logger.WithFields(logrus.Fields{
			"commits":       skipped.Commits,
			"pull_requests": skipped.PullRequests,
			"issues":        skipped.Issues,
			"branches":      skipped.Branches,
			"reviews":       skipped.Reviews,
		}).Warn("normalizer dropped malformed records")
	}

	return h, skipped
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseOptionalTime(s string) *time.Time {
	t, ok := parseTime(s)
	if !ok {
		return nil
	}
	return &t
}
