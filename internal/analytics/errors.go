package analytics

import "errors"

// Sentinel errors for the analysis engine. Per-record malformedness never
// reaches this level; it is recovered by the normalizer and surfaced as a
// skip count.
var (
	// ErrInvalidOption rejects an out-of-range option before any
	// computation starts.
	ErrInvalidOption = errors.New("invalid analysis option")

	// ErrUndefinedMetric marks a metric that has no defined value, such as
	// the bus factor of a folder with zero recorded weight. It is never
	// silently coerced to zero.
	ErrUndefinedMetric = errors.New("metric undefined for input")

	// ErrCanceled wraps cooperative cancellation observed at an iteration
	// boundary. The partial result is discarded, never returned.
	ErrCanceled = errors.New("analysis canceled")

	// ErrWindowOverlap rejects comparison windows that share any instant.
	ErrWindowOverlap = errors.New("comparison windows overlap")
)
