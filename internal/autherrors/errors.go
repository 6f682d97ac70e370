package autherrors

import (
	"errors"
	"fmt"
)

// Common error types for the authentication core
var (
	// Registration errors
	ErrDuplicateUser = errors.New("user already exists")

	// Authentication errors. Unknown email and wrong password both map to
	// ErrInvalidCredentials so callers cannot tell which case occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Directory errors
	ErrUserNotFound = errors.New("user not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
