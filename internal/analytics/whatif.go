package analytics

import (
	"sort"
)

// WhatIfResult is the outcome of hypothetically removing contributors
// from a pre-computed ownership matrix. The removed identities' weight is
// subtracted outright, never renormalized away.
type WhatIfResult struct {
	Removed   []string         `json:"removed"`
	Matrix    *OwnershipMatrix `json:"matrix"`
	BusFactor *BusFactorReport `json:"bus_factor"`
	// OrphanedFolders had a defined bus factor before the removal and
	// zero attributable weight after: nobody left owns them.
	OrphanedFolders []string `json:"orphaned_folders,omitempty"`
	// GlobalBefore and GlobalAfter expose the primary risk figure on both
	// sides of the simulation; either may be nil when undefined.
	GlobalBefore *FolderRisk `json:"global_before,omitempty"`
	GlobalAfter  *FolderRisk `json:"global_after,omitempty"`
}

// SimulateRemoval recomputes ownership and bus factors with the given
// contributors' historical weight zeroed out. Removing an identity with
// no weight in the matrix leaves the result identical to the unmodified
// input.
func SimulateRemoval(base *OwnershipMatrix, removed []string, opts Options) (*WhatIfResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	removedSet := make(map[string]bool, len(removed))
	for _, id := range removed {
		removedSet[id] = true
	}
	normalized := make([]string, 0, len(removedSet))
	for id := range removedSet {
		normalized = append(normalized, id)
	}
	sort.Strings(normalized)

	before, err := ComputeBusFactor(base, opts)
	if err != nil {
		return nil, err
	}

	reduced := base.WithoutContributors(removedSet)
	after, err := ComputeBusFactor(reduced, opts)
	if err != nil {
		return nil, err
	}

	// A folder that existed before and vanished now has zero total
	// weight: its bus factor became undefined.
	remaining := make(map[string]bool)
	for _, f := range reduced.Folders() {
		remaining[f] = true
	}
	var orphaned []string
	for _, f := range base.Folders() {
		if !remaining[f] {
			orphaned = append(orphaned, f)
		}
	}

	return &WhatIfResult{
		Removed:         normalized,
		Matrix:          reduced,
		BusFactor:       after,
		OrphanedFolders: orphaned,
		GlobalBefore:    before.Global,
		GlobalAfter:     after.Global,
	}, nil
}
