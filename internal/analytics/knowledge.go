package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/repopulse/repopulse-go/internal/models"
)

// siloShare is the ownership fraction above which a folder counts as a
// knowledge silo.
const siloShare = 0.8

// KnowledgeMap is the result of decay-weighted ownership attribution over
// one window. The matrix holds raw weights; silo detection normalizes per
// folder at read time.
type KnowledgeMap struct {
	Window models.Window    `json:"window"`
	Matrix *OwnershipMatrix `json:"matrix"`
	// Silos lists folders where a single contributor holds at least 80%
	// of the total weight, each as "folder (owner, share)".
	Silos []Silo `json:"silos,omitempty"`
}

// Silo is a folder dominated by a single contributor.
type Silo struct {
	Folder string  `json:"folder"`
	Owner  string  `json:"owner"`
	Share  float64 `json:"share"`
}

// BuildKnowledgeMap attributes each in-window commit's changed lines to
// (contributor, folder) cells, down-weighting older commits exponentially:
// weight = 0.5^(age/half-life) × (added + removed). The decay reference is
// the window end, so the result depends only on its inputs. A half-life of
// zero disables decay.
func BuildKnowledgeMap(ctx context.Context, h *models.History, window models.Window, opts Options) (*KnowledgeMap, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	matrix := NewOwnershipMatrix()
	for i := range h.Commits {
		if i%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: knowledge map: %v", ErrCanceled, err)
			}
		}
		c := &h.Commits[i]
		if !window.Contains(c.AuthoredAt) {
			continue
		}

		decay := 1.0
		if opts.DecayHalfLifeDays > 0 {
			ageDays := window.End.Sub(c.AuthoredAt).Hours() / 24
			decay = math.Pow(0.5, ageDays/opts.DecayHalfLifeDays)
		}

		lines := float64(c.Additions + c.Deletions)
		for _, fp := range c.FilesChanged {
			matrix.Add(c.Author, models.FolderAt(fp, opts.FolderDepth), decay*lines)
		}
	}

	return &KnowledgeMap{
		Window: window,
		Matrix: matrix,
		Silos:  detectSilos(matrix),
	}, nil
}

func detectSilos(m *OwnershipMatrix) []Silo {
	totals := m.FolderTotals()
	contributors := m.Contributors()

	var silos []Silo
	for _, folder := range m.Folders() {
		total := totals[folder]
		if total <= 0 {
			continue
		}
		for _, c := range contributors {
			w := m.Weight(c, folder)
			if share := w / total; share >= siloShare {
				silos = append(silos, Silo{Folder: folder, Owner: c, Share: share})
				break
			}
		}
	}
	sort.Slice(silos, func(i, j int) bool { return silos[i].Folder < silos[j].Folder })
	return silos
}
