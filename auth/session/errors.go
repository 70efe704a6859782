package session

import "errors"

var (
	// ErrInvalidRole is returned when a role is not in the recognized set.
	ErrInvalidRole = errors.New("invalid role")

	// ErrNoSessionForRole is returned when a role switch targets a role
	// without a stored session.
	ErrNoSessionForRole = errors.New("no session for role")
)
