package learnsphere

import (
	"errors"
)

// ErrSessionExpired is reported when the credential could not be renewed.
var ErrSessionExpired = errors.New("session expired")

// NewUnauthorizedError constructs a 401 Error with the raw response body.
func NewUnauthorizedError(body []byte) *Error {
	return NewStatusError(401, body)
}

// IsUnauthorized returns true if err is or wraps a 401 Error or ErrSessionExpired.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	return KindOf(err) == KindUnauthorized
}
