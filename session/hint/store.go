package hint

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no hint was found for the given id.
	ErrNotFound = errors.New("session hint not found")
)

// Store persists session hints across client restarts.
// Implementations should be safe for concurrent use.
type Store interface {
	// Put inserts or updates a hint, applying the store idle TTL when ExpiresAt is unset.
	Put(ctx context.Context, h *Hint) error

	// Get retrieves a hint by id. Should return ErrNotFound if missing or expired.
	Get(ctx context.Context, id string) (*Hint, error)

	// Touch updates last-used timestamp and extends idle expiry.
	Touch(ctx context.Context, id string, at time.Time) error

	// Revoke deletes a hint immediately.
	Revoke(ctx context.Context, id string) error
}
