package rostergen

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid generator config")
	ErrWrite         = errors.New("failed to write roster")
)
