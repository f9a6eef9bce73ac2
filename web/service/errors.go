package service

import "github.com/pkg/errors"

var (
	// ErrInvalidCredentials covers an unknown username and a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned by Register for an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound is returned when a session refers to a deleted user.
	ErrUserNotFound = errors.New("user not found")
	// ErrEntryNotFound is returned for a missing entry and for one owned by
	// another user.
	ErrEntryNotFound = errors.New("entry not found or unauthorized")
)
