package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotReady   = errors.New("roster not loaded yet")
	ErrNotFound   = errors.New("not found")
)
