package repository

import "errors"

var (
	// ErrNotFound is returned when a list or item does not exist.
	ErrNotFound = errors.New("repository: entity not found")

	// ErrParentNotFound is returned when an item is written under a list
	// that does not exist.
	ErrParentNotFound = errors.New("repository: parent list not found")
)
