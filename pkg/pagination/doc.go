// Package pagination provides the two concurrency primitives the aggregators
// are built on: an ordered, bounded fan-out join over per-item lookups and
// the single-flight paging protocol of the catalog list.
//
// Example usage:
//
//	bf := pagination.NewBatchFetcher(pagination.DefaultConfig())
//	entries, err := pagination.FetchAll(ctx, bf, refs, func(ctx context.Context, ref pokeapi.NamedResource) (*pokeapi.Pokemon, error) {
//		return api.Pokemon(ctx, ref.URL)
//	})
//
// FetchAll:
//   - Returns results in input order, not completion order
//   - Is atomic: the first failure cancels outstanding lookups and fails the call
//   - Runs at most MaxConcurrency lookups at a time (0 = unbounded)
//   - Processes items in sequential batches of BatchSize (0 = one batch)
//
// Pager tracks the cursor, hasMore and in-flight flags of incremental
// loading. Every page request carries a Ticket; completions whose ticket
// belongs to an earlier epoch (after Reset or Suspend) are refused.
package pagination
