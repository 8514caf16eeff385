package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/repopulse/repopulse-go/internal/models"
)

// ReviewerStats summarizes one reviewer's in-window activity.
type ReviewerStats struct {
	Reviewer               string  `json:"reviewer"`
	Reviews                int     `json:"reviews"`
	Approvals              int     `json:"approvals"`
	ChangesRequested       int     `json:"changes_requested"`
	ApprovalRate           float64 `json:"approval_rate"`
	MeanFirstReviewHours   float64 `json:"mean_first_review_hours"`
	MedianFirstReviewHours float64 `json:"median_first_review_hours"`
}

// ReviewPair counts how often a reviewer reviewed a particular author.
type ReviewPair struct {
	Author   string `json:"author"`
	Reviewer string `json:"reviewer"`
	Count    int    `json:"count"`
}

// ReviewCultureReport is the review latency, load and pairing summary for
// one window. A PR with no reviews counts toward PendingReview only; it
// never touches any reviewer's statistics.
type ReviewCultureReport struct {
	Window                 models.Window   `json:"window"`
	PRsReviewed            int             `json:"prs_reviewed"`
	PendingReview          int             `json:"pending_review"`
	MeanFirstReviewHours   float64         `json:"mean_first_review_hours"`
	MedianFirstReviewHours float64         `json:"median_first_review_hours"`
	Reviewers              []ReviewerStats `json:"reviewers"`
	Pairs                  []ReviewPair    `json:"pairs,omitempty"`
	// Bottlenecks are reviewers in the top percentile of review load whose
	// mean time-to-first-review is above the median across reviewers.
	Bottlenecks []string `json:"bottlenecks,omitempty"`
}

// AnalyzeReviewCulture computes per-reviewer latency and load statistics
// over pull requests created inside the window.
func AnalyzeReviewCulture(ctx context.Context, h *models.History, window models.Window, opts Options) (*ReviewCultureReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	type acc struct {
		reviews          int
		approvals        int
		changesRequested int
		firstReviewHours []float64
	}
	byReviewer := make(map[string]*acc)
	pairCounts := make(map[[2]string]int)

	report := &ReviewCultureReport{Window: window}
	var prFirstReview []float64

	for i := range h.PullRequests {
		if i%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: review culture: %v", ErrCanceled, err)
			}
		}
		pr := &h.PullRequests[i]
		if !window.Contains(pr.CreatedAt) {
			continue
		}
		if len(pr.Reviews) == 0 {
			report.PendingReview++
			continue
		}
		report.PRsReviewed++

		// First review per reviewer on this PR; the earliest of those is
		// the PR-level time to first review.
		firstByReviewer := make(map[string]float64)
		for _, rv := range pr.Reviews {
			hours := rv.SubmittedAt.Sub(pr.CreatedAt).Hours()
			if hours < 0 {
				// Review timestamps predating the PR are malformed noise.
				continue
			}
			a := byReviewer[rv.Reviewer]
			if a == nil {
				a = &acc{}
				byReviewer[rv.Reviewer] = a
			}
			a.reviews++
			switch rv.Verdict {
			case models.VerdictApprove:
				a.approvals++
			case models.VerdictRequestChanges:
				a.changesRequested++
			}
			pairCounts[[2]string{pr.Author, rv.Reviewer}]++
			if prev, ok := firstByReviewer[rv.Reviewer]; !ok || hours < prev {
				firstByReviewer[rv.Reviewer] = hours
			}
		}

		prEarliest := -1.0
		for reviewer, hours := range firstByReviewer {
			byReviewer[reviewer].firstReviewHours = append(byReviewer[reviewer].firstReviewHours, hours)
			if prEarliest < 0 || hours < prEarliest {
				prEarliest = hours
			}
		}
		if prEarliest >= 0 {
			prFirstReview = append(prFirstReview, prEarliest)
		}
	}

	report.MeanFirstReviewHours = meanOrZero(prFirstReview)
	report.MedianFirstReviewHours = medianOrZero(prFirstReview)

	for reviewer, a := range byReviewer {
		rs := ReviewerStats{
			Reviewer:               reviewer,
			Reviews:                a.reviews,
			Approvals:              a.approvals,
			ChangesRequested:       a.changesRequested,
			MeanFirstReviewHours:   meanOrZero(a.firstReviewHours),
			MedianFirstReviewHours: medianOrZero(a.firstReviewHours),
		}
		if a.reviews > 0 {
			rs.ApprovalRate = float64(a.approvals) / float64(a.reviews)
		}
		report.Reviewers = append(report.Reviewers, rs)
	}
	sort.Slice(report.Reviewers, func(i, j int) bool {
		if report.Reviewers[i].Reviews != report.Reviewers[j].Reviews {
			return report.Reviewers[i].Reviews > report.Reviewers[j].Reviews
		}
		return report.Reviewers[i].Reviewer < report.Reviewers[j].Reviewer
	})

	for key, count := range pairCounts {
		report.Pairs = append(report.Pairs, ReviewPair{Author: key[0], Reviewer: key[1], Count: count})
	}
	sort.Slice(report.Pairs, func(i, j int) bool {
		if report.Pairs[i].Count != report.Pairs[j].Count {
			return report.Pairs[i].Count > report.Pairs[j].Count
		}
		if report.Pairs[i].Author != report.Pairs[j].Author {
			return report.Pairs[i].Author < report.Pairs[j].Author
		}
		return report.Pairs[i].Reviewer < report.Pairs[j].Reviewer
	})

	report.Bottlenecks = findBottlenecks(report.Reviewers, opts.BottleneckPercentile)
	return report, nil
}

func findBottlenecks(reviewers []ReviewerStats, topFraction float64) []string {
	if len(reviewers) == 0 {
		return nil
	}

	loads := make(stats.Float64Data, 0, len(reviewers))
	latencies := make(stats.Float64Data, 0, len(reviewers))
	for _, rs := range reviewers {
		loads = append(loads, float64(rs.Reviews))
		latencies = append(latencies, rs.MeanFirstReviewHours)
	}

	loadCutoff, err := stats.Percentile(loads, 100*(1-topFraction))
	if err != nil {
		return nil
	}
	medianLatency, err := stats.Median(latencies)
	if err != nil {
		return nil
	}

	var out []string
	for _, rs := range reviewers {
		if float64(rs.Reviews) >= loadCutoff && rs.MeanFirstReviewHours > medianLatency {
			out = append(out, rs.Reviewer)
		}
	}
	sort.Strings(out)
	return out
}

func meanOrZero(samples []float64) float64 {
	m, err := stats.Mean(stats.Float64Data(samples))
	if err != nil {
		return 0
	}
	return m
}

func medianOrZero(samples []float64) float64 {
	m, err := stats.Median(stats.Float64Data(samples))
	if err != nil {
		return 0
	}
	return m
}
