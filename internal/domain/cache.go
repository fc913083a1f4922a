package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the store.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the store.
const ErrCacheMiss = CacheError("cache: key not found")

// QuizStore defines the port the upload step writes the repaired quiz tree to.
// Implementations of this interface are adapters (e.g., RedisStoreAdapter).
type QuizStore interface {
	// Ping checks the health of the store.
	Ping(ctx context.Context) error

	// ReplaceTree atomically replaces every hash listed in the set at index
	// with hashes (key -> field -> value) and records the new keys in index.
	// Keys listed in index but absent from hashes are deleted. A positive ttl
	// is applied to every written hash.
	ReplaceTree(ctx context.Context, index string, hashes map[string]map[string]string, ttl time.Duration) error

	// HGetAll retrieves all fields and values of a hash stored at key.
	// It returns ErrCacheMiss if the hash is empty or missing.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}
