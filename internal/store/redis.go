package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in Redis under "<prefix>:<id>" with an optional
// TTL that is refreshed on every Put.
type RedisStore[T any] struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a RedisStore. A zero ttl stores values without expiry.
//
// Precondition: client must be non-nil and prefix non-empty.
func NewRedisStore[T any](client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore[T] {
	if client == nil || prefix == "" {
		panic("store.NewRedisStore: client and prefix are required")
	}
	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl}
}

var _ Store[int] = (*RedisStore[int])(nil)

func (s *RedisStore[T]) key(id string) string {
	return s.prefix + ":" + id
}

// Get loads and decodes the value stored under id.
func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return v, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return v, fmt.Errorf("redis get %q: %w", id, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decoding %q: %w", id, err)
	}
	return v, nil
}

// Put encodes v and stores it under id.
func (s *RedisStore[T]) Put(ctx context.Context, id string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", id, err)
	}
	return nil
}

// Delete removes id.
func (s *RedisStore[T]) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", id, err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (s *RedisStore[T]) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
