package common

import "errors"

// Sentinel errors shared by repositories and services. Callers should use
// errors.Is to match these values.
var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired         = errors.New("token expired")
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")
)
