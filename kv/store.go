package kv

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get for a key that has never been set.
	// Callers treat it as "empty collection" or "no token" per the
	// persistence contract.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnavailable indicates the backing store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the generic key/value persistence collaborator. Implementations
// are replaceable (in-memory, file, Redis); the core never depends on a
// concrete one.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
