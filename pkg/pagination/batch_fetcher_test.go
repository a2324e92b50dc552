package pagination

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagesOf(total, perPage int) PageFetcherFunc[int] {
	return func(ctx context.Context, page int) ([]int, int, error) {
		items := make([]int, perPage)
		for i := range items {
			items[i] = (page-1)*perPage + i
		}
		return items, total, nil
	}
}

func TestFetchAll_SinglePage(t *testing.T) {
	var calls atomic.Int32
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) ([]int, int, error) {
		calls.Add(1)
		return []int{1, 2, 3}, 1, nil
	})

	items, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAll(context.Background(), "/test")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, items)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchAll_PageOrderPreserved(t *testing.T) {
	base := pagesOf(9, 3)
	// Later pages answer first.
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) ([]int, int, error) {
		time.Sleep(time.Duration(10-page) * time.Millisecond)
		return base(ctx, page)
	})

	items, err := NewBatchFetcher[int](fetcher, Config{MaxConcurrency: 4}).FetchAll(context.Background(), "/test")
	require.NoError(t, err)
	require.Len(t, items, 27)
	for i, v := range items {
		assert.Equal(t, i, v)
	}
}

func TestFetchAll_RespectsConcurrency(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	base := pagesOf(12, 1)
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) ([]int, int, error) {
		if page > 1 {
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}
		return base(ctx, page)
	})

	_, err := NewBatchFetcher[int](fetcher, Config{MaxConcurrency: 3}).FetchAll(context.Background(), "/test")
	require.NoError(t, err)
	assert.LessOrEqual(t, maxSeen, 3)
}

func TestFetchAll_FirstPageError(t *testing.T) {
	boom := errors.New("boom")
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) ([]int, int, error) {
		return nil, 0, boom
	})

	_, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAll(context.Background(), "/test")
	assert.ErrorIs(t, err, boom)
}

func TestFetchAll_LaterPageError(t *testing.T) {
	boom := errors.New("boom")
	base := pagesOf(6, 2)
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) ([]int, int, error) {
		if page == 4 {
			return nil, 0, boom
		}
		return base(ctx, page)
	})

	items, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAll(context.Background(), "/test")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "page 4")
	assert.Nil(t, items)
}

func TestFetchAll_TooManyPages(t *testing.T) {
	_, err := NewBatchFetcher[int](pagesOf(500, 1), Config{MaxPages: 10}).FetchAll(context.Background(), "/test")
	assert.ErrorIs(t, err, ErrTooManyPages)
}
