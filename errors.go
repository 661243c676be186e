package main

import "errors"

// Sentinel errors shared by the stores and the matching engine. Handlers
// map these to HTTP status codes in writeStoreError; everything else is
// treated as an internal error for the single operation.
var (
	// ErrNotFound is returned when a referenced profile, match, like or
	// message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSelfLike is returned when a profile tries to like itself.
	ErrSelfLike = errors.New("cannot like own profile")

	// ErrAccessDenied is returned when the caller is not a participant of
	// the referenced match.
	ErrAccessDenied = errors.New("access denied")

	// ErrMatchExists signals a unique-pair conflict during match creation.
	// Callers recover by rereading the winning row; it is never surfaced
	// to API clients.
	ErrMatchExists = errors.New("match already exists")

	// ErrEmptyMessage is returned for chat payloads that are empty after
	// trimming whitespace.
	ErrEmptyMessage = errors.New("message cannot be empty")
)
