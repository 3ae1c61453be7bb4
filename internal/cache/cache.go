// Package cache provides the key/value stores used for render results and
// compiled templates, plus a get-or-compute loader on top of them.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("cache: empty key")

// Forever is the TTL for entries that never expire.
const Forever time.Duration = 0

// Store is a byte-oriented key/value store.
// A TTL of zero or less stores the entry without expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
