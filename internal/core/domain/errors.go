package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")

	// ErrProfileNotFound and ErrAmbiguousProfile are the two ways a
	// single-row profile lookup can fail besides a transport error.
	ErrProfileNotFound  = errors.New("profile not found")
	ErrAmbiguousProfile = errors.New("more than one profile matches identity")

	// ErrOrphanedIdentity marks a registration whose profile insert failed and
	// whose identity could not be removed afterwards.
	ErrOrphanedIdentity = errors.New("identity left without profile")
)
