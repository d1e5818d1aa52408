// Package storage defines the key-value contract the garage persists its
// snapshots to, along with the local and MongoDB-backed implementations.
// Values are opaque UTF-8 strings keyed by name; there are no transactional
// guarantees across calls.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the minimal key-value interface the garage writes through. The
// garage uses exactly one key for the whole fleet snapshot.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
