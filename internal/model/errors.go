package model

import "errors"

// Sentinel errors declared by the model package.
var (
	// ErrMissingCommand is returned when a CommandRecord has no command text.
	ErrMissingCommand = errors.New("model: command is required")
	// ErrMissingSessionID is returned when a SessionRecord has no long id.
	ErrMissingSessionID = errors.New("model: session_long_id is required")
	// ErrRecordNotFound describes a lookup by id that finds no row. The store
	// package does not return it; it reports a missing id with
	// store.ErrNotFound.
	ErrRecordNotFound = errors.New("model: record not found")
)
