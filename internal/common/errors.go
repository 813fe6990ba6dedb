// Package common defines shared constants and sentinel errors used across
// the imgvault server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrAccessDenied = errors.New("access denied")

	// Validation errors.
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidReference = errors.New("invalid reference")

	// Remote image host errors.
	ErrUploadFailed = errors.New("image upload failed")
	ErrDeleteFailed = errors.New("image delete failed")
)
