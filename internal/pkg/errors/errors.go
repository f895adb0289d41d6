package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources, including
	// resources that exist but belong to another user.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is a generic sentinel for state conflicts (duplicates, lost races).
	ErrConflict = errors.New("conflict")
)
