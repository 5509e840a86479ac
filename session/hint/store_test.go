package hint

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkStore runs the behaviour every Store must share
func checkStore(t *testing.T, store Store) {
	ctx := context.Background()
	h := NewHint("u-1")

	_, err := store.Get(ctx, h.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, h))
	got, err := store.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.Subject)
	assert.True(t, got.Authenticated)

	touchedAt := time.Now().Add(time.Minute)
	require.NoError(t, store.Touch(ctx, h.ID, touchedAt))
	got, err = store.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, touchedAt, got.LastUsedAt, time.Millisecond)

	require.NoError(t, store.Revoke(ctx, h.ID))
	assert.ErrorIs(t, store.Revoke(ctx, h.ID), ErrNotFound)
	assert.ErrorIs(t, store.Touch(ctx, h.ID, time.Now()), ErrNotFound)
	_, err = store.Get(ctx, h.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	checkStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_IdleExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	h := &Hint{ID: "install-1", Authenticated: true, ExpiresAt: time.Now().Add(-time.Second)}
	require.NoError(t, store.Put(ctx, h))
	_, err := store.Get(ctx, "install-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	h := &Hint{ID: "install-1", Subject: "u-1", Authenticated: true}
	require.NoError(t, store.Put(ctx, h))
	h.Subject = "changed"

	got, err := store.Get(ctx, "install-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.Subject)
	assert.True(t, got.ExpiresAt.IsZero())
	got.Subject = "changed"

	again, err := store.Get(ctx, "install-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", again.Subject)
}

func TestTTLFor(t *testing.T) {
	now := time.Now()
	assert.Equal(t, time.Duration(0), ttlFor(&Hint{}, now))
	assert.Equal(t, time.Second, ttlFor(&Hint{ExpiresAt: now.Add(-time.Minute)}, now))
	assert.Equal(t, time.Minute, ttlFor(&Hint{ExpiresAt: now.Add(time.Minute)}, now))
}
