package analytics

import (
	"fmt"
	"sort"
)

// Default policy values. These are policy choices, not facts about the
// data; callers override them through config or flags.
const (
	DefaultHalfLifeDays         = 90.0
	DefaultFolderDepth          = 2
	DefaultCoverageThreshold    = 0.5
	DefaultBottleneckPercentile = 0.2
	DefaultInactivityDays       = 60
)

// Options carries every tunable the analysis functions recognize. A zero
// value is not usable; start from DefaultOptions.
type Options struct {
	// DecayHalfLifeDays halves a commit's ownership weight every given
	// number of days of elapsed time. Zero disables decay entirely.
	DecayHalfLifeDays float64 `json:"decay_half_life_days"`

	// FolderDepth is the directory depth used as the unit of ownership
	// attribution; deeper paths roll up to their ancestor at this depth.
	FolderDepth int `json:"folder_depth"`

	// CoverageThreshold is the cumulative ownership share a folder's risk
	// set must reach, in [0, 1].
	CoverageThreshold float64 `json:"coverage_threshold"`

	// BottleneckPercentile is the top fraction of review load that,
	// combined with above-median review latency, marks a reviewer as a
	// bottleneck. 0.2 means the top 20%.
	BottleneckPercentile float64 `json:"bottleneck_percentile"`

	// InactivityDays is the stale-branch activity threshold.
	InactivityDays int `json:"inactivity_days"`

	// CategoryPrefixes maps conventional commit prefixes to changelog
	// categories. Unmatched text lands in the "other" bucket.
	CategoryPrefixes map[string]string `json:"category_prefixes,omitempty"`
}

// DefaultOptions returns the documented default policy.
func DefaultOptions() Options {
	return Options{
		DecayHalfLifeDays:    DefaultHalfLifeDays,
		FolderDepth:          DefaultFolderDepth,
		CoverageThreshold:    DefaultCoverageThreshold,
		BottleneckPercentile: DefaultBottleneckPercentile,
		InactivityDays:       DefaultInactivityDays,
		CategoryPrefixes:     DefaultCategoryPrefixes(),
	}
}

// DefaultCategoryPrefixes returns the conventional-commit prefix map.
func DefaultCategoryPrefixes() map[string]string {
	return map[string]string{
		"feat":     "feat",
		"feature":  "feat",
		"fix":      "fix",
		"bugfix":   "fix",
		"hotfix":   "fix",
		"chore":    "chore",
		"docs":     "docs",
		"doc":      "docs",
		"refactor": "refactor",
		"test":     "test",
		"tests":    "test",
		"perf":     "perf",
		"ci":       "ci",
		"build":    "ci",
		"style":    "style",
	}
}

// Validate rejects out-of-range options. Validation happens once, before
// any computation starts; a failure here aborts the whole run.
func (o Options) Validate() error {
	if o.DecayHalfLifeDays < 0 {
		return fmt.Errorf("%w: decay half-life must be >= 0, got %g", ErrInvalidOption, o.DecayHalfLifeDays)
	}
	if o.FolderDepth < 1 {
		return fmt.Errorf("%w: folder depth must be >= 1, got %d", ErrInvalidOption, o.FolderDepth)
	}
	if o.CoverageThreshold < 0 || o.CoverageThreshold > 1 {
		return fmt.Errorf("%w: coverage threshold must be in [0, 1], got %g", ErrInvalidOption, o.CoverageThreshold)
	}
	if o.BottleneckPercentile <= 0 || o.BottleneckPercentile > 1 {
		return fmt.Errorf("%w: bottleneck percentile must be in (0, 1], got %g", ErrInvalidOption, o.BottleneckPercentile)
	}
	if o.InactivityDays < 0 {
		return fmt.Errorf("%w: inactivity threshold must be >= 0 days, got %d", ErrInvalidOption, o.InactivityDays)
	}
	return nil
}

// categories returns the configured prefix map, falling back to the
// defaults when unset, plus the fixed category ordering used by the
// changelog: feat, fix, then the rest alphabetically.
func (o Options) categories() (prefixes map[string]string, order []string) {
	prefixes = o.CategoryPrefixes
	if len(prefixes) == 0 {
		prefixes = DefaultCategoryPrefixes()
	}

	seen := map[string]bool{"other": true}
	for _, cat := range prefixes {
		seen[cat] = true
	}

	var rest []string
	for cat := range seen {
		if cat != "feat" && cat != "fix" {
			rest = append(rest, cat)
		}
	}
	sort.Strings(rest)

	order = make([]string, 0, len(rest)+2)
	if seen["feat"] {
		order = append(order, "feat")
	}
	if seen["fix"] {
		order = append(order, "fix")
	}
	order = append(order, rest...)
	return prefixes, order
}
