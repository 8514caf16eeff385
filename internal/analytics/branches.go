package analytics

import (
	"sort"
	"time"

	"github.com/repopulse/repopulse-go/internal/models"
)

// BranchCategory classifies a branch's state relative to the default
// branch. The four categories are mutually exclusive and exhaustive.
type BranchCategory string

const (
	// BranchMerged means the branch head is already an ancestor of the
	// default branch; safe to delete.
	BranchMerged BranchCategory = "merged"
	// BranchOrphan means the branch carries no commits beyond its
	// divergence point and has seen no recent activity; a stale pointer.
	BranchOrphan BranchCategory = "orphan"
	// BranchAbandoned means the branch diverges but its last activity is
	// older than the inactivity threshold.
	BranchAbandoned BranchCategory = "abandoned"
	// BranchWIP means active, unmerged, diverging work.
	BranchWIP BranchCategory = "wip"
)

// ClassifiedBranch pairs a branch with its category and staleness.
type ClassifiedBranch struct {
	Branch    models.Branch  `json:"branch"`
	Category  BranchCategory `json:"category"`
	DaysStale int            `json:"days_stale"`
}

// BranchReport categorizes every branch other than the default branch.
type BranchReport struct {
	AsOf     time.Time          `json:"as_of"`
	Total    int                `json:"total"`
	Branches []ClassifiedBranch `json:"branches"`
	// CleanupCandidates counts merged and orphan branches, the ones that
	// can go without losing work.
	CleanupCandidates int `json:"cleanup_candidates"`
	ByCategory        map[BranchCategory]int `json:"by_category"`
}

// ClassifyBranch resolves exactly one category for a branch. The four
// predicates are evaluated in priority order, with wip as the terminal
// case, so the function is total.
func ClassifyBranch(b models.Branch, asOf time.Time, inactivityDays int) BranchCategory {
	stale := asOf.Sub(b.LastActivity) >= time.Duration(inactivityDays)*24*time.Hour
	switch {
	case b.Merged:
		return BranchMerged
	case b.AheadBy == 0 && stale:
		return BranchOrphan
	case stale:
		return BranchAbandoned
	default:
		return BranchWIP
	}
}

// ClassifyBranches classifies all non-default branches as of a reference
// time, stalest first.
func ClassifyBranches(h *models.History, asOf time.Time, opts Options) (*BranchReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	report := &BranchReport{
		AsOf:       asOf,
		ByCategory: make(map[BranchCategory]int),
	}
	for _, b := range h.Branches {
		if b.Name == h.DefaultBranch {
			continue
		}
		report.Total++
		cat := ClassifyBranch(b, asOf, opts.InactivityDays)
		report.ByCategory[cat]++
		if cat == BranchMerged || cat == BranchOrphan {
			report.CleanupCandidates++
		}
		days := int(asOf.Sub(b.LastActivity).Hours() / 24)
		if days < 0 {
			days = 0
		}
		report.Branches = append(report.Branches, ClassifiedBranch{
			Branch:    b,
			Category:  cat,
			DaysStale: days,
		})
	}

	sort.Slice(report.Branches, func(i, j int) bool {
		if report.Branches[i].DaysStale != report.Branches[j].DaysStale {
			return report.Branches[i].DaysStale > report.Branches[j].DaysStale
		}
		return report.Branches[i].Branch.Name < report.Branches[j].Branch.Name
	})
	return report, nil
}
