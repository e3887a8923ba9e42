package domain

import "errors"

var (
	// ErrNoteNotFound is returned when note metadata does not exist.
	ErrNoteNotFound = errors.New("note not found")

	// ErrContentNotFound is returned by content stores for notes whose
	// content blob was never written. Callers treat it as a normal case,
	// not a failure.
	ErrContentNotFound = errors.New("note content not found")

	// ErrUserNotFound is returned when a user document does not exist.
	ErrUserNotFound = errors.New("user not found")
)
