package library

import "errors"

var (
	ErrUserIDRequired = errors.New("user id is required")
	ErrNameRequired   = errors.New("list name is required")
	ErrItemRequired   = errors.New("item reference is required")

	ErrListNotFound   = errors.New("list not found")
	ErrRecordNotFound = errors.New("media record not found")
	ErrEntryNotFound  = errors.New("list entry not found")

	// ErrNotOwner is returned when an authenticated user targets a list they
	// do not own. Never downgraded or swallowed.
	ErrNotOwner = errors.New("list does not belong to user")
)
