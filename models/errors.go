package models

import "errors"

// Domain errors shared between repositories and handlers. Handlers translate
// these into HTTP responses; anything else bubbling out of a repository is
// treated as an internal error and hidden from the client.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("not authorized")
	ErrUserExists   = errors.New("user already exists")
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post has not yet been liked")
)
