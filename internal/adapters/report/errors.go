package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrUnsorted      = errors.New("teams are not ordered by id")
)
