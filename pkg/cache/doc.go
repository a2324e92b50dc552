// Package cache provides the in-process response cache that sits in front of
// the Câmara open-data API.
//
// The store maps a request fingerprint to a decoded response and its absolute
// expiry. It has the following properties:
//
// - Set overwrites any existing entry and stores expiry as now+ttl
// - Get returns a value only while now <= expiresAt, evicting it otherwise
// - Sweep removes every entry whose expiry has passed, independent of reads
// - Clear empties the store for manual cache-busting
// - No size bound; correctness depends only on time-based expiry
//
// # Basic Usage
//
//	store := cache.NewStore[any]()
//	defer store.Close()
//
//	key := cache.Key{
//		Endpoint:    "/deputados",
//		QueryParams: url.Values{"siglaUf": []string{"SP"}},
//	}
//
//	store.Set(key.String(), deputies, 5*time.Minute)
//
//	if v, ok := store.Get(key.String()); ok {
//		// fresh hit
//	}
//
// # Periodic Sweep
//
//	// Sweep expired entries every five minutes until ctx is cancelled.
//	store.StartSweeper(ctx, 5*time.Minute)
//
// The sweeper runs on its own goroutine and holds the store lock only while
// deleting, so request handling is never blocked for the duration of a tick.
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - camara_cache_hits_total - Fresh cache hits
//   - camara_cache_misses_total - Misses, including expired entries
//   - camara_cache_evictions_total{reason} - Entries removed ("lazy", "sweep")
//   - camara_cache_entries - Current number of stored entries
package cache
