// Package pagination fetches every page of a paginated upstream collection.
//
// The Câmara API reports the page count through the "last" link of each
// response envelope. This package fetches the first page to learn the count,
// then fetches the remaining pages with a bounded worker pool and reassembles
// the items in page order.
//
// Example usage:
//
//	fetcher := pagination.NewBatchFetcher[normalize.Despesa](pageFunc, pagination.DefaultConfig())
//	items, err := fetcher.FetchAll(ctx, "/deputados/204554/despesas")
//
// The batch fetcher:
//   - Fetches the first page to determine total pages
//   - Spawns a worker pool (default 4 workers)
//   - Distributes remaining pages across workers
//   - Stops all workers on the first failure and returns that error
package pagination
