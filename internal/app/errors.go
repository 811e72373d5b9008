package app

import "errors"

// Sentinel kinds for run failures. Every failure ends the run.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrEmptyInput           = errors.New("no players in roster")
)
