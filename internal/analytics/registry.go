package analytics

import (
	"context"

	"github.com/repopulse/repopulse-go/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the full metric set for one window. It is the unit the
// storage layer persists and the comparator diffs; every field serializes
// round-trippably and carries no wall-clock state of its own.
type Snapshot struct {
	Repo         string               `json:"repo"`
	Window       models.Window        `json:"window"`
	Stats        *StatsReport         `json:"stats"`
	KnowledgeMap *KnowledgeMap        `json:"knowledge_map"`
	BusFactor    *BusFactorReport     `json:"bus_factor"`
	Review       *ReviewCultureReport `json:"review"`
	Branches     *BranchReport        `json:"branches"`
	Changelog    *ChangelogReport     `json:"changelog"`
}

// Registry runs the full analysis pipeline. The individual analyses
// depend only on the normalized history, so they fan out concurrently
// over the same read-only data.
type Registry struct {
	logger *logrus.Logger
}

// NewRegistry creates a registry. A nil logger falls back to the logrus
// standard logger.
func NewRegistry(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{logger: logger}
}

// RunAll computes every analysis for one window. Options are validated
// once up front, so an out-of-range setting aborts before any work.
func (r *Registry) RunAll(ctx context.Context, h *models.History, window models.Window, opts Options) (*Snapshot, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Repo: h.Repo, Window: window}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Stats, err = ComputeContributorStats(gctx, h, window, opts)
		return err
	})
	g.Go(func() error {
		km, err := BuildKnowledgeMap(gctx, h, window, opts)
		if err != nil {
			return err
		}
		snap.KnowledgeMap = km
		snap.BusFactor, err = ComputeBusFactor(km.Matrix, opts)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Review, err = AnalyzeReviewCulture(gctx, h, window, opts)
		return err
	})
	g.Go(func() error {
		var err error
		// Branch staleness is judged as of the window end so the result
		// depends only on its inputs.
		snap.Branches, err = ClassifyBranches(h, window.End, opts)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Changelog, err = SynthesizeChangelog(gctx, h, window, opts)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"repo":         h.Repo,
		"window":       window.Label(),
		"contributors": len(snap.Stats.Contributors),
		"folders":      len(snap.BusFactor.Folders),
	}).Debug("analysis complete")

	return snap, nil
}
