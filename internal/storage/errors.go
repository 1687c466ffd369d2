// Package storage holds the sentinel errors every record store adapter returns.
package storage

import "errors"

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("storage: record not found")
	// ErrReferenced is returned when a restrict foreign key blocks a delete.
	ErrReferenced = errors.New("storage: record is still referenced")
)
