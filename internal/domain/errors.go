package domain

import "errors"

// Error taxonomy for the public operation surface. Every failure a
// caller can observe wraps exactly one of these sentinels; the HTTP
// layer maps them to status codes with errors.Is.
var (
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthorized    = errors.New("unauthorized")
)
