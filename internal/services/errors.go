package services

import "errors"

// Sentinel errors shared across services. The handler layer maps these
// to HTTP status codes; services never touch the response writer.
var (
	// ErrEmailTaken signals a registration attempt with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound signals an operation on a resource id that does not
	// exist. Existence is always checked before ownership.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals an operation on a resource owned by a
	// different user.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation signals malformed or missing input; nothing is
	// persisted.
	ErrValidation = errors.New("validation failed")
)
