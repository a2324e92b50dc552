package cache

import (
	"context"
	"sync"
	"time"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the time source used for expiry decisions (for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Store is a bounded-lifetime key/value store guarded by a mutex.
// It is safe for concurrent use.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]*Entry[V]
	now     func() time.Time

	sweepOnce sync.Once
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewStore creates an empty store.
func NewStore[V any](opts ...Option) *Store[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[V]{
		entries:  make(map[string]*Entry[V]),
		now:      o.now,
		stopChan: make(chan struct{}),
	}
}

// Set stores value under key with absolute expiry now+ttl,
// overwriting any existing entry for that key.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &Entry[V]{
		Value:     value,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	CacheEntries.Set(float64(len(s.entries)))
}

// Get returns the stored value while it is fresh.
// A stale entry is reported absent and evicted.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		CacheMisses.Inc()
		return zero, false
	}

	if entry.IsExpired(now) {
		delete(s.entries, key)
		CacheEvictions.WithLabelValues("lazy").Inc()
		CacheEntries.Set(float64(len(s.entries)))
		CacheMisses.Inc()
		return zero, false
	}

	CacheHits.Inc()
	return entry.Value, true
}

// Lookup returns a copy of the fresh entry for key, including its timestamps.
func (s *Store[V]) Lookup(key string) (Entry[V], bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.IsExpired(now) {
		return Entry[V]{}, false
	}
	return *entry, true
}

// Delete removes the entry for key, if any.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	CacheEntries.Set(float64(len(s.entries)))
}

// Sweep removes all entries whose expiry is before the current time and
// returns how many were removed. Unexpired entries are left untouched.
func (s *Store[V]) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.ExpiresAt.Before(now) {
			delete(s.entries, key)
			removed++
		}
	}

	if removed > 0 {
		CacheEvictions.WithLabelValues("sweep").Add(float64(removed))
	}
	CacheEntries.Set(float64(len(s.entries)))

	return removed
}

// Clear unconditionally empties the store.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*Entry[V])
	CacheEntries.Set(0)
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartSweeper runs Sweep every interval on a background goroutine until ctx
// is cancelled or Close is called. Only the first call starts a sweeper.
func (s *Store[V]) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.sweepOnce.Do(func() {
		s.wg.Add(1)
		go s.sweepLoop(ctx, interval)
	})
}

// Close stops the sweeper goroutine. Safe to call multiple times.
func (s *Store[V]) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *Store[V]) sweepLoop(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
