// Package common defines shared constants and sentinel errors used across
// the microblog server, its repositories and the admin CLI. Callers should
// use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Uniqueness violations reported by the users repository.
	ErrDuplicateUsername = fmt.Errorf("username %w", ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("email %w", ErrAlreadyExists)

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
