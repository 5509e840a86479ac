package hint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore is a durable Store backed by Redis; key TTL mirrors the hint idle expiry.
type RedisStore struct {
	rdb     *redis.Client
	prefix  string
	idleTTL time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(rdb *redis.Client, prefix string, idleTTL time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "learnsphere:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, idleTTL: idleTTL}
}

func (s *RedisStore) keyHint(id string) string { return s.prefix + "hint:" + id }

func (s *RedisStore) Put(ctx context.Context, h *Hint) error {
	now := time.Now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.LastUsedAt.IsZero() {
		h.LastUsedAt = now
	}
	if h.ExpiresAt.IsZero() && s.idleTTL > 0 {
		h.ExpiresAt = now.Add(s.idleTTL)
	}
	return s.write(ctx, h, now)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Hint, error) {
	raw, err := s.rdb.Get(ctx, s.keyHint(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	h := &Hint{}
	if err := json.Unmarshal(raw, h); err != nil {
		return nil, err
	}
	if h.expired(time.Now()) {
		_ = s.rdb.Del(ctx, s.keyHint(id)).Err()
		return nil, ErrNotFound
	}
	return h, nil
}

func (s *RedisStore) Touch(ctx context.Context, id string, at time.Time) error {
	h, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	h.LastUsedAt = at
	if s.idleTTL > 0 {
		h.ExpiresAt = at.Add(s.idleTTL)
	}
	return s.write(ctx, h, time.Now())
}

func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	deleted, err := s.rdb.Del(ctx, s.keyHint(id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, h *Hint, now time.Time) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.keyHint(h.ID), data, ttlFor(h, now)).Err()
}

func ttlFor(h *Hint, now time.Time) time.Duration {
	if h.ExpiresAt.IsZero() {
		return 0 // no TTL
	}
	if h.ExpiresAt.Before(now) {
		return time.Second
	}
	return h.ExpiresAt.Sub(now)
}

// String returns a diagnostic representation of the store config.
func (s *RedisStore) String() string {
	return fmt.Sprintf("RedisStore{prefix=%s idleTTL=%s}", s.prefix, s.idleTTL)
}
