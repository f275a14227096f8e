package provider

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist in the snapshot
	ErrNotFound = errors.New("not found")
)
