package auth

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDenied       = errors.New("authorization denied")
)

// Denied wraps ErrDenied with the decision reason so callers can both
// match with errors.Is and surface the reason code.
func Denied(reason string) error {
	return fmt.Errorf("%w: %s", ErrDenied, reason)
}
