package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional update matched no row,
	// i.e. the caller lost a race or the precondition no longer holds.
	ErrConflict = errors.New("conditional update conflict")
)
