package cache

import (
	"time"
)

// Entry represents a cached upstream response.
type Entry[V any] struct {
	// Value is the decoded response body
	Value V

	// StoredAt is when we cached this response
	StoredAt time.Time

	// ExpiresAt is the absolute expiry (StoredAt + ttl)
	ExpiresAt time.Time
}

// IsExpired reports whether the entry is stale at now.
// An entry is still fresh at exactly ExpiresAt.
func (e *Entry[V]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTL returns the time remaining until expiration at now.
// Returns 0 if already expired.
func (e *Entry[V]) TTL(now time.Time) time.Duration {
	ttl := e.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
