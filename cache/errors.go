package cache

import "errors"

// Sentinel errors for the asset cache.
var (
	// ErrNotFound is returned when a request has no stored response.
	ErrNotFound = errors.New("not found")

	// ErrNotInstalled is returned when a worker is activated before a successful install.
	ErrNotInstalled = errors.New("worker is not installed")
)
