package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/repopulse/repopulse-go/internal/models"
)

// MetricDelta is one numeric comparison row. Change is always B minus A,
// so diff(A, B) is the exact negation of diff(B, A).
type MetricDelta struct {
	Metric string  `json:"metric"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	Change float64 `json:"change"`
}

// ComparisonReport holds the full metric set for two disjoint windows plus
// their deltas and contributor churn.
type ComparisonReport struct {
	WindowA models.Window `json:"window_a"`
	WindowB models.Window `json:"window_b"`
	A       *Snapshot     `json:"a"`
	B       *Snapshot     `json:"b"`
	Deltas  []MetricDelta `json:"deltas"`
	// Joined are contributors active in B but not A; Departed the
	// reverse.
	Joined   []string `json:"joined,omitempty"`
	Departed []string `json:"departed,omitempty"`
}

// Compare runs the full pipeline over two disjoint windows (A earlier, B
// later) and diffs the results. It holds no state between calls, so
// repeated runs over the same inputs yield identical output.
func (r *Registry) Compare(ctx context.Context, h *models.History, windowA, windowB models.Window, opts Options) (*ComparisonReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if windowA.Overlaps(windowB) {
		return nil, fmt.Errorf("%w: %s and %s", ErrWindowOverlap, windowA.Label(), windowB.Label())
	}
	if !windowA.Start.Before(windowB.Start) {
		return nil, fmt.Errorf("%w: window A must precede window B", ErrInvalidOption)
	}

	snapA, err := r.RunAll(ctx, h, windowA, opts)
	if err != nil {
		return nil, fmt.Errorf("window A: %w", err)
	}
	snapB, err := r.RunAll(ctx, h, windowB, opts)
	if err != nil {
		return nil, fmt.Errorf("window B: %w", err)
	}

	report := &ComparisonReport{
		WindowA: windowA,
		WindowB: windowB,
		A:       snapA,
		B:       snapB,
		Deltas:  diffSnapshots(snapA, snapB),
	}
	report.Joined, report.Departed = contributorChurn(snapA.Stats, snapB.Stats)
	return report, nil
}

func diffSnapshots(a, b *Snapshot) []MetricDelta {
	var deltas []MetricDelta
	add := func(metric string, va, vb float64) {
		deltas = append(deltas, MetricDelta{Metric: metric, A: va, B: vb, Change: vb - va})
	}

	add("commits", float64(a.Stats.TotalCommits()), float64(b.Stats.TotalCommits()))
	add("contributors", float64(len(a.Stats.Contributors)), float64(len(b.Stats.Contributors)))
	add("lines_changed", float64(a.Stats.TotalLinesChanged()), float64(b.Stats.TotalLinesChanged()))
	add("prs_reviewed", float64(a.Review.PRsReviewed), float64(b.Review.PRsReviewed))
	add("pending_review", float64(a.Review.PendingReview), float64(b.Review.PendingReview))
	add("mean_first_review_hours", a.Review.MeanFirstReviewHours, b.Review.MeanFirstReviewHours)
	add("reviewers", float64(len(a.Review.Reviewers)), float64(len(b.Review.Reviewers)))
	add("knowledge_silos", float64(len(a.KnowledgeMap.Silos)), float64(len(b.KnowledgeMap.Silos)))
	add("changelog_entries", float64(len(a.Changelog.Entries)), float64(len(b.Changelog.Entries)))
	add("stale_branches", staleCount(a.Branches), staleCount(b.Branches))

	// The global bus factor is only comparable when defined on both
	// sides; an undefined metric never coerces to zero.
	if a.BusFactor.Global != nil && b.BusFactor.Global != nil {
		add("global_bus_factor", float64(a.BusFactor.Global.BusFactor), float64(b.BusFactor.Global.BusFactor))
	}
	return deltas
}

func staleCount(r *BranchReport) float64 {
	return float64(r.ByCategory[BranchAbandoned] + r.ByCategory[BranchOrphan])
}

func contributorChurn(a, b *StatsReport) (joined, departed []string) {
	inA := make(map[string]bool, len(a.Contributors))
	for _, c := range a.Contributors {
		inA[c.Contributor] = true
	}
	inB := make(map[string]bool, len(b.Contributors))
	for _, c := range b.Contributors {
		inB[c.Contributor] = true
	}
	for key := range inB {
		if !inA[key] {
			joined = append(joined, key)
		}
	}
	for key := range inA {
		if !inB[key] {
			departed = append(departed, key)
		}
	}
	sort.Strings(joined)
	sort.Strings(departed)
	return joined, departed
}
