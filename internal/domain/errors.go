package domain

import "errors"

// Sentinel errors shared across stores, services and handlers.
// Handlers map these onto HTTP status codes; everything else is wrapped
// and treated as an internal error.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthorized       = errors.New("unauthorized")
)
