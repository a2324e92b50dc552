//go:build integration

package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/politicosbr/camara-client/internal/testutil"
	"github.com/politicosbr/camara-client/pkg/cache"
	"github.com/politicosbr/camara-client/pkg/ratelimit"
)

func TestIntegration_FullRequestFlow(t *testing.T) {
	mock := testutil.NewMockCamara()
	defer mock.Close()
	mock.SetResponse("/deputados", testutil.NewJSONResponse(testutil.Envelope(`[{"id": 1}, {"id": 2}]`)))

	store := cache.NewStore[any]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartSweeper(ctx, 50*time.Millisecond)
	defer store.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	c, err := New(cfg, store)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// Phase 1: miss populates the cache.
	got, err := GetJSON[payload](ctx, c, "/deputados", Params{"itens": 2}, CacheFor(100*time.Millisecond))
	if err != nil {
		t.Fatalf("Phase 1 failed: %v", err)
	}
	if len(got.Dados) != 2 {
		t.Fatalf("Phase 1 got %d records, want 2", len(got.Dados))
	}

	// Phase 2: hit served without dispatch.
	if _, err := GetJSON[payload](ctx, c, "/deputados", Params{"itens": 2}, CacheFor(100*time.Millisecond)); err != nil {
		t.Fatalf("Phase 2 failed: %v", err)
	}
	if n := mock.RequestCount(); n != 1 {
		t.Errorf("Phase 2 RequestCount = %d, want 1", n)
	}

	// Phase 3: the sweeper removes the entry without any reads.
	deadline := time.Now().Add(2 * time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if store.Len() != 0 {
		t.Fatalf("Phase 3 store.Len() = %d, want 0", store.Len())
	}

	// Phase 4: next call dispatches again.
	if _, err := GetJSON[payload](ctx, c, "/deputados", Params{"itens": 2}, CacheFor(time.Minute)); err != nil {
		t.Fatalf("Phase 4 failed: %v", err)
	}
	if n := mock.RequestCount(); n != 2 {
		t.Errorf("Phase 4 RequestCount = %d, want 2", n)
	}
}

func TestIntegration_ConcurrentMissesMayDuplicate(t *testing.T) {
	var hits atomic.Int32
	mock := testutil.NewMockCamara()
	defer mock.Close()
	mock.SetHandler("/deputados", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte(testutil.Envelope(`[]`)))
	})

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.RateLimit = ratelimit.Config{}
	c, err := New(cfg, cache.NewStore[any]())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := GetJSON[payload](context.Background(), c, "/deputados", nil, CacheFor(time.Minute)); err != nil {
				t.Errorf("GetJSON() error = %v", err)
			}
		}()
	}
	wg.Wait()

	n := hits.Load()
	if n < 1 || n > 8 {
		t.Errorf("upstream hits = %d, want between 1 and 8", n)
	}

	if _, err := GetJSON[payload](context.Background(), c, "/deputados", nil, CacheFor(time.Minute)); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if hits.Load() != n {
		t.Errorf("follow-up call dispatched; hits = %d, want %d", hits.Load(), n)
	}
}
