package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrEmptyInput is returned when there are no records to normalize over.
	ErrEmptyInput = errors.New("no players to score")
	// ErrMissingMetric is returned when a record lacks one of the metrics.
	ErrMissingMetric = errors.New("missing metric")
)
