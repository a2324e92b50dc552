package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrTooManyPages is returned when a collection reports more pages than Config.MaxPages.
var ErrTooManyPages = errors.New("too many pages")

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests.
	MaxConcurrency int

	// MaxPages bounds the page count accepted from the upstream.
	MaxPages int
}

// DefaultConfig returns a configuration that stays well inside the upstream request gate.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		MaxPages:       50,
	}
}

// PageFetcher fetches one page and reports the total page count.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, page int) (items []T, totalPages int, err error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, page int) ([]T, int, error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, page int) ([]T, int, error) {
	return f(ctx, page)
}

// pageResult is the outcome of fetching a single page.
type pageResult[T any] struct {
	page  int
	items []T
	err   error
}

// BatchFetcher handles parallel fetching of multiple pages.
type BatchFetcher[T any] struct {
	fetcher PageFetcher[T]
	config  Config
	logger  zerolog.Logger
}

// NewBatchFetcher creates a new batch fetcher.
func NewBatchFetcher[T any](fetcher PageFetcher[T], config Config) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 50
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "pagination").Logger(),
	}
}

// FetchAll returns the items of every page in page order.
// label identifies the collection in logs.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context, label string) ([]T, error) {
	start := time.Now()

	first, totalPages, err := bf.fetcher.FetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch page 1: %w", err)
	}

	if totalPages <= 1 {
		return first, nil
	}
	if totalPages > bf.config.MaxPages {
		return nil, fmt.Errorf("%w: %s reports %d pages (limit %d)", ErrTooManyPages, label, totalPages, bf.config.MaxPages)
	}

	bf.logger.Debug().
		Str("endpoint", label).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pageQueue := make(chan int, totalPages-1)
	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	results := make(chan pageResult[T], totalPages-1)

	workers := min(bf.config.MaxConcurrency, totalPages-1)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go bf.worker(ctx, pageQueue, results, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	pages := make([][]T, totalPages+1)
	pages[1] = first
	var firstErr error

	for result := range results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch page %d: %w", result.page, result.err)
				cancel()
			}
			continue
		}
		pages[result.page] = result.items
	}

	if firstErr != nil {
		bf.logger.Warn().
			Err(firstErr).
			Str("endpoint", label).
			Int("total_pages", totalPages).
			Msg("Page fetch failed")
		return nil, firstErr
	}

	var items []T
	for _, p := range pages[1:] {
		items = append(items, p...)
	}

	bf.logger.Debug().
		Str("endpoint", label).
		Int("pages", totalPages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

// worker processes pages from the queue until it drains or ctx ends.
func (bf *BatchFetcher[T]) worker(ctx context.Context, pageQueue <-chan int, results chan<- pageResult[T], wg *sync.WaitGroup) {
	defer wg.Done()

	for page := range pageQueue {
		if ctx.Err() != nil {
			return
		}

		items, _, err := bf.fetcher.FetchPage(ctx, page)
		results <- pageResult[T]{page: page, items: items, err: err}
	}
}
