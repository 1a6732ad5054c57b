package store

import (
	"errors"
	"fmt"
)

// Generic sentinels. Entity-specific errors below wrap one of these,
// so errors.Is(err, ErrNotFound) holds for every missing record.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// User errors.
var (
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrUsernameExists = fmt.Errorf("username %w", ErrAlreadyExists)
)

// Tag errors.
var (
	ErrTagNotFound = fmt.Errorf("tag %w", ErrNotFound)
	ErrTagExists   = fmt.Errorf("tag title %w", ErrAlreadyExists)
)

// Content errors.
var (
	ErrContentNotFound = fmt.Errorf("content %w", ErrNotFound)
	// ErrShareTokenTaken means a different record already holds the token.
	ErrShareTokenTaken = fmt.Errorf("share token %w", ErrAlreadyExists)
)

// translate maps generic entity errors to the caller's specific sentinels.
func translate(err, notFound, exists error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, ErrAlreadyExists) && exists != nil:
		return exists
	default:
		return err
	}
}
