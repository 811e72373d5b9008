package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrFileNotFound    = errors.New("roster file not found")
	ErrRead            = errors.New("roster read failed")
	ErrParse           = errors.New("roster parse failed")
	ErrDuplicatePlayer = errors.New("duplicate player id")
)
