package main

import "errors"

// ErrMissingArgument is returned when a required option is absent.
var ErrMissingArgument = errors.New("missing required argument")
