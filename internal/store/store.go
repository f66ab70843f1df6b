// Package store keeps hot run and battle state between requests, either in
// process memory or in Redis. Values are stored as JSON in both backends so
// callers never share memory with what is stored.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value is stored under an id.
var ErrNotFound = errors.New("not found")

// Store is keyed JSON storage for one value type.
type Store[T any] interface {
	// Get returns the value stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)
	// Put stores v under id, replacing any previous value.
	Put(ctx context.Context, id string, v T) error
	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
