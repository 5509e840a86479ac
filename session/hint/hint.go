package hint

import (
	"time"

	"github.com/google/uuid"
)

// Hint is the only durable piece of session state: whether this client was authenticated.
// It never holds a credential; it lets a restarted client assume a session until bootstrap proves otherwise.
type Hint struct {
	// ID identifies the client installation holding the hint.
	ID string `json:"id"`
	// Subject is the last known user id (optional).
	Subject       string `json:"subject,omitempty"`
	Authenticated bool   `json:"authenticated"`

	CreatedAt  time.Time `json:"createdAt"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	// ExpiresAt is the idle expiration time (sliding TTL).
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewHint creates an authenticated Hint with generated id.
func NewHint(subject string) *Hint {
	now := time.Now()
	return &Hint{
		ID:            uuid.New().String(),
		Subject:       subject,
		Authenticated: true,
		CreatedAt:     now,
		LastUsedAt:    now,
	}
}

func (h *Hint) expired(now time.Time) bool {
	return !h.ExpiresAt.IsZero() && now.After(h.ExpiresAt)
}
