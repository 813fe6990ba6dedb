package common

import (
	"fmt"
	"regexp"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUsername checks the username length constraint (3–20 characters).
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLength || len(username) > UsernameMaxLength {
		return fmt.Errorf("%w: username must be between %d and %d characters",
			ErrInvalidInput, UsernameMinLength, UsernameMaxLength)
	}
	return nil
}

// ValidateEmail checks the email format. An empty email is allowed, the
// field is optional.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	return nil
}
