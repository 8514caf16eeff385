package analytics

import (
	"fmt"
	"sort"
)

// coverageEpsilon absorbs float accumulation error when comparing a
// cumulative share against the threshold.
const coverageEpsilon = 1e-9

// FolderRisk is the minimal-coverage result for a single folder. RiskSet
// holds the contributors, ranked by descending weight, whose cumulative
// share meets the coverage threshold; its size is the folder's bus factor.
type FolderRisk struct {
	Folder       string   `json:"folder"`
	BusFactor    int      `json:"bus_factor"`
	RiskSet      []string `json:"risk_set"`
	TotalWeight  float64  `json:"total_weight"`
	CoveredShare float64  `json:"covered_share"`
}

// BusFactorReport ranks all folders by risk. Folders with zero total
// weight never appear: their bus factor is undefined, not zero.
type BusFactorReport struct {
	Threshold float64      `json:"threshold"`
	Folders   []FolderRisk `json:"folders"`
	// Global is the primary risk figure: the folder with the smallest bus
	// factor, importance-weighted by total activity. Nil when the matrix
	// is empty.
	Global *FolderRisk `json:"global,omitempty"`
	// Monopolists are contributors holding all recorded weight of at
	// least one folder.
	Monopolists []string `json:"monopolists,omitempty"`
	// ExclusiveFolders maps a contributor to folders where they hold all
	// recorded weight.
	ExclusiveFolders map[string][]string `json:"exclusive_folders,omitempty"`
}

// ComputeBusFactor derives minimal-coverage risk sets for every folder in
// the matrix.
func ComputeBusFactor(matrix *OwnershipMatrix, opts Options) (*BusFactorReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	report := &BusFactorReport{
		Threshold:        opts.CoverageThreshold,
		ExclusiveFolders: make(map[string][]string),
	}

	for _, folder := range matrix.Folders() {
		risk, err := FolderBusFactor(matrix, folder, opts.CoverageThreshold)
		if err != nil {
			// Zero-weight folders are undefined and excluded from the
			// ranking.
			continue
		}
		report.Folders = append(report.Folders, risk)

		if len(risk.RiskSet) == 1 && risk.CoveredShare >= 1-coverageEpsilon {
			owner := risk.RiskSet[0]
			report.ExclusiveFolders[owner] = append(report.ExclusiveFolders[owner], folder)
		}
	}

	// Smallest bus factor first; folder importance (total activity) breaks
	// ties, then identity for stability.
	sort.Slice(report.Folders, func(i, j int) bool {
		a, b := report.Folders[i], report.Folders[j]
		if a.BusFactor != b.BusFactor {
			return a.BusFactor < b.BusFactor
		}
		if a.TotalWeight != b.TotalWeight {
			return a.TotalWeight > b.TotalWeight
		}
		return a.Folder < b.Folder
	})
	if len(report.Folders) > 0 {
		global := report.Folders[0]
		report.Global = &global
	}

	for owner := range report.ExclusiveFolders {
		sort.Strings(report.ExclusiveFolders[owner])
		report.Monopolists = append(report.Monopolists, owner)
	}
	sort.Strings(report.Monopolists)
	if len(report.ExclusiveFolders) == 0 {
		report.ExclusiveFolders = nil
	}

	return report, nil
}

// FolderBusFactor computes the minimal descending-weight risk set for one
// folder. Contributors with equal weight rank by identity string, so the
// result is stable. A folder with no recorded weight yields
// ErrUndefinedMetric.
func FolderBusFactor(matrix *OwnershipMatrix, folder string, threshold float64) (FolderRisk, error) {
	type share struct {
		contributor string
		weight      float64
	}
	var shares []share
	total := 0.0
	for c, row := range matrix.Cells {
		if w := row[folder]; w > 0 {
			shares = append(shares, share{c, w})
			total += w
		}
	}
	if total <= 0 {
		return FolderRisk{}, fmt.Errorf("%w: folder %q has zero total weight", ErrUndefinedMetric, folder)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].weight != shares[j].weight {
			return shares[i].weight > shares[j].weight
		}
		return shares[i].contributor < shares[j].contributor
	})

	risk := FolderRisk{Folder: folder, TotalWeight: total}
	covered := 0.0
	for _, s := range shares {
		risk.RiskSet = append(risk.RiskSet, s.contributor)
		covered += s.weight
		// A threshold of zero still yields the single top contributor:
		// the check runs only after at least one member joined the set.
		if covered >= threshold*total-coverageEpsilon {
			break
		}
	}
	risk.BusFactor = len(risk.RiskSet)
	risk.CoveredShare = covered / total
	return risk, nil
}
