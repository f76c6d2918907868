// Package detail implements the detail pipeline: it joins the primary
// record of one entry with its species, evolution chain, generation, moves
// and encounters into a single view model.
package detail

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/catalog"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Source is the subset of the upstream API the detail reads.
// *pokeapi.API satisfies it.
type Source interface {
	PokemonByID(ctx context.Context, id int) (*pokeapi.Pokemon, error)
	Species(ctx context.Context, ref string) (*pokeapi.Species, error)
	EvolutionChain(ctx context.Context, ref string) (*pokeapi.EvolutionChain, error)
	Generation(ctx context.Context, ref string) (*pokeapi.Generation, error)
	Encounters(ctx context.Context, id int) ([]pokeapi.LocationAreaEncounter, error)
	Move(ctx context.Context, ref string) (*pokeapi.Move, error)
}

// Primary is the result of FetchPrimary.
type Primary struct {
	Entry    catalog.Entry
	Stats    []Stat
	RawMoves []pokeapi.MoveSlot
	// SpeciesRef points at the species record, which for alternate forms
	// is not the entry id.
	SpeciesRef string
}

// Aggregator builds detail view models. It keeps no state between loads.
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
		logger:  log.With().Str("component", "detail").Logger(),
	}
}

// FetchPrimary fetches the entry record. A missing or empty record yields an
// error matching ErrNotFound.
func (a *Aggregator) FetchPrimary(ctx context.Context, id int) (*Primary, error) {
	if id <= 0 {
		return nil, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}

	p, err := a.source.PokemonByID(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, fmt.Errorf("entry %d: %w: %w", id, ErrNotFound, err)
		}
		return nil, err
	}
	if p.ID == 0 {
		return nil, fmt.Errorf("entry %d: empty record: %w", id, ErrNotFound)
	}

	stats := make([]Stat, 0, len(p.Stats))
	for _, s := range p.Stats {
		stats = append(stats, Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}

	speciesRef := p.Species.URL
	if speciesRef == "" {
		speciesRef = strconv.Itoa(p.ID)
	}

	return &Primary{
		Entry:      catalog.EntryFromPokemon(p),
		Stats:      stats,
		RawMoves:   p.Moves,
		SpeciesRef: speciesRef,
	}, nil
}

// FetchSpecies fetches the description and the chain and generation refs.
// ref is the species reference of the primary record.
func (a *Aggregator) FetchSpecies(ctx context.Context, ref string) (SpeciesInfo, error) {
	s, err := a.source.Species(ctx, ref)
	if err != nil {
		return SpeciesInfo{}, err
	}
	return speciesInfo(s), nil
}

// ResolveEvolutionChain fetches and flattens the chain, then resolves each
// stage's categories with one fetch per stage. An empty ref yields no stages.
func (a *Aggregator) ResolveEvolutionChain(ctx context.Context, ref string) ([]EvolutionStage, error) {
	if ref == "" {
		return []EvolutionStage{}, nil
	}

	chain, err := a.source.EvolutionChain(ctx, ref)
	if err != nil {
		return nil, err
	}

	stages := WalkChain(chain.Chain)
	return pagination.FetchAll(ctx, a.fetcher, stages, func(ctx context.Context, stage EvolutionStage) (EvolutionStage, error) {
		if stage.ID == 0 {
			return stage, nil
		}
		p, err := a.source.PokemonByID(ctx, stage.ID)
		if err != nil {
			return EvolutionStage{}, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		stage.Categories = p.TypeNames()
		return stage, nil
	})
}

// ResolveGenerationLabel fetches the generation document and derives its
// display label. An empty ref yields "".
func (a *Aggregator) ResolveGenerationLabel(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	gen, err := a.source.Generation(ctx, ref)
	if err != nil {
		return "", err
	}
	return GenerationLabel(gen.Name), nil
}

// ResolveMoves fetches every move record and joins it with its first learn
// context. The result keeps the raw order; see SortMoves.
func (a *Aggregator) ResolveMoves(ctx context.Context, raw []pokeapi.MoveSlot) ([]MoveRow, error) {
	return pagination.FetchAll(ctx, a.fetcher, raw, func(ctx context.Context, slot pokeapi.MoveSlot) (MoveRow, error) {
		ref := slot.Move.URL
		if ref == "" {
			ref = slot.Move.Name
		}
		m, err := a.source.Move(ctx, ref)
		if err != nil {
			return MoveRow{}, err
		}
		return MoveRowFromSlot(slot, m), nil
	})
}

// FetchEncounters fetches and expands the encounter rows of entry id.
func (a *Aggregator) FetchEncounters(ctx context.Context, id int) ([]EncounterRow, error) {
	encounters, err := a.source.Encounters(ctx, id)
	if err != nil {
		return nil, err
	}
	return ExpandEncounters(encounters), nil
}

// Load builds the complete view model of entry id. The primary record is
// fetched first; species (then chain and generation), moves and encounters
// follow concurrently. Any failure fails the whole load.
func (a *Aggregator) Load(ctx context.Context, id int) (*ViewModel, error) {
	start := time.Now()

	primary, err := a.FetchPrimary(ctx, id)
	if err != nil {
		return nil, err
	}

	vm := &ViewModel{Entry: primary.Entry, Stats: primary.Stats}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, err := a.FetchSpecies(gctx, primary.SpeciesRef)
		if err != nil {
			return fmt.Errorf("species: %w", err)
		}
		vm.Description = info.Description

		var sg errgroup.Group
		sg.Go(func() error {
			stages, err := a.ResolveEvolutionChain(gctx, info.EvolutionChainRef)
			if err != nil {
				return fmt.Errorf("evolution chain: %w", err)
			}
			vm.EvolutionChain = stages
			return nil
		})
		sg.Go(func() error {
			label, err := a.ResolveGenerationLabel(gctx, info.GenerationRef)
			if err != nil {
				return fmt.Errorf("generation: %w", err)
			}
			vm.GenerationLabel = label
			return nil
		})
		return sg.Wait()
	})

	g.Go(func() error {
		rows, err := a.ResolveMoves(gctx, primary.RawMoves)
		if err != nil {
			return fmt.Errorf("moves: %w", err)
		}
		vm.Moves = SortMoves(rows)
		return nil
	})

	g.Go(func() error {
		rows, err := a.FetchEncounters(gctx, id)
		if err != nil {
			return fmt.Errorf("encounters: %w", err)
		}
		vm.Encounters = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error().Err(err).Int("id", id).Msg("Detail load failed")
		return nil, fmt.Errorf("load entry %d: %w", id, err)
	}

	a.logger.Info().
		Int("id", id).
		Str("name", vm.Entry.Name).
		Int("stages", len(vm.EvolutionChain)).
		Int("moves", len(vm.Moves)).
		Int("encounters", len(vm.Encounters)).
		Dur("duration", time.Since(start)).
		Msg("Detail resolved")

	return vm, nil
}
