// Package ratelimit gates requests to the Câmara open-data API.
// It bounds request volume with a token bucket and backs off after the
// upstream answers 429 Too Many Requests, honoring its Retry-After header.
package ratelimit

import (
	"time"
)

// DefaultCooldown is used when a 429 response carries no usable Retry-After.
const DefaultCooldown = 30 * time.Second

// State represents the current upstream throttling state.
type State struct {
	// CooldownUntil is when requests may be dispatched again after a 429.
	// Zero when no cooldown is active.
	CooldownUntil time.Time `json:"cooldown_until"`

	// LastThrottled is when the upstream last answered 429.
	LastThrottled time.Time `json:"last_throttled"`

	// ThrottledTotal counts 429 responses seen by this tracker.
	ThrottledTotal int `json:"throttled_total"`
}

// InCooldown reports whether dispatch is blocked at now.
func (s State) InCooldown(now time.Time) bool {
	return now.Before(s.CooldownUntil)
}

// TimeUntilReset returns the remaining cooldown at now.
// Returns 0 if no cooldown is active.
func (s State) TimeUntilReset(now time.Time) time.Duration {
	d := s.CooldownUntil.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// IsHealthy reports whether the upstream has not throttled us within window.
func (s State) IsHealthy(now time.Time, window time.Duration) bool {
	if s.LastThrottled.IsZero() {
		return true
	}
	return now.Sub(s.LastThrottled) > window
}
