package model

import "errors"

var (
	// ErrSourceUnavailable marks a telemetry or config source that could not be
	// reached or returned an unusable answer.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotFound marks a config source that does not exist at all.
	ErrNotFound = errors.New("not found")
)
