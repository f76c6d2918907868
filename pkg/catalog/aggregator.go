// Package catalog implements the catalog pipeline: list paging, per-entry
// resolution, generation subsets and client-side filtering.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// excludedCategories carry no gameplay meaning.
var excludedCategories = map[string]bool{
	"unknown": true,
	"shadow":  true,
}

// Source is the subset of the upstream API the catalog reads.
// *pokeapi.API satisfies it.
type Source interface {
	ListPokemon(ctx context.Context, offset, limit int) (*pokeapi.ResourceList, error)
	Types(ctx context.Context) (*pokeapi.ResourceList, error)
	Generations(ctx context.Context) (*pokeapi.ResourceList, error)
	Generation(ctx context.Context, ref string) (*pokeapi.Generation, error)
	Pokemon(ctx context.Context, ref string) (*pokeapi.Pokemon, error)
}

// Aggregator resolves catalog entries. It holds no view state and may be
// shared by the sessions of one route.
type Aggregator struct {
	source  Source
	fetcher *pagination.BatchFetcher
	logger  zerolog.Logger
}

// NewAggregator creates an aggregator. A nil fetcher uses the default
// fan-out configuration.
func NewAggregator(source Source, fetcher *pagination.BatchFetcher) *Aggregator {
	if fetcher == nil {
		fetcher = pagination.NewBatchFetcher(pagination.DefaultConfig())
	}
	return &Aggregator{
		source:  source,
		fetcher: fetcher,
		logger:  log.With().Str("component", "catalog").Logger(),
	}
}

// LoadCategories fetches the category taxonomy without the "unknown" and
// "shadow" sentinels.
func (a *Aggregator) LoadCategories(ctx context.Context) ([]CategoryRef, error) {
	list, err := a.source.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	refs := make([]CategoryRef, 0, len(list.Results))
	for _, r := range list.Results {
		if excludedCategories[r.Name] {
			continue
		}
		refs = append(refs, CategoryRef{Name: r.Name, URL: r.URL})
	}
	return refs, nil
}

// LoadGenerations fetches the generation taxonomy.
func (a *Aggregator) LoadGenerations(ctx context.Context) ([]GenerationRef, error) {
	list, err := a.source.Generations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load generations: %w", err)
	}

	refs := make([]GenerationRef, 0, len(list.Results))
	for _, r := range list.Results {
		refs = append(refs, GenerationRef{Name: r.Name, URL: r.URL})
	}
	return refs, nil
}

// FetchPage fetches pageSize list references starting at cursor and resolves
// each to an entry. The page is atomic: if any entry fails, the page fails.
func (a *Aggregator) FetchPage(ctx context.Context, cursor, pageSize int) (Page, error) {
	if cursor < 0 || pageSize <= 0 {
		return Page{}, fmt.Errorf("invalid page request: cursor=%d page_size=%d", cursor, pageSize)
	}

	start := time.Now()
	list, err := a.source.ListPokemon(ctx, cursor, pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("fetch page at %d: %w", cursor, err)
	}

	refs := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		refs = append(refs, r.URL)
	}

	entries, err := a.resolve(ctx, refs)
	if err != nil {
		return Page{}, fmt.Errorf("fetch page at %d: %w", cursor, err)
	}

	page := Page{Entries: entries}
	if list.HasNext() {
		next := cursor + pageSize
		page.NextCursor = &next
	}

	a.logger.Info().
		Int("cursor", cursor).
		Int("entries", len(entries)).
		Bool("has_more", page.NextCursor != nil).
		Dur("duration", time.Since(start)).
		Msg("Catalog page resolved")

	return page, nil
}

// FetchByGeneration resolves every member of a generation, ordered by
// numeric identifier. The upstream member order is not relied on.
func (a *Aggregator) FetchByGeneration(ctx context.Context, ref string) ([]Entry, error) {
	gen, err := a.source.Generation(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch generation %s: %w", ref, err)
	}

	ids := make([]int, 0, len(gen.PokemonSpecies))
	for _, member := range gen.PokemonSpecies {
		id, ok := member.ID()
		if !ok {
			a.logger.Warn().
				Str("generation", gen.Name).
				Str("member_url", member.URL).
				Msg("Skipping generation member without numeric id")
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	refs := make([]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, fmt.Sprintf("pokemon/%d", id))
	}

	entries, err := a.resolve(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("fetch generation %s: %w", ref, err)
	}

	a.logger.Info().
		Str("generation", gen.Name).
		Int("entries", len(entries)).
		Msg("Generation resolved")

	return entries, nil
}

// resolve fans out one detail fetch per reference and joins them in order.
func (a *Aggregator) resolve(ctx context.Context, refs []string) ([]Entry, error) {
	return pagination.FetchAll(ctx, a.fetcher, refs, func(ctx context.Context, ref string) (Entry, error) {
		p, err := a.source.Pokemon(ctx, ref)
		if err != nil {
			return Entry{}, err
		}
		return EntryFromPokemon(p), nil
	})
}
