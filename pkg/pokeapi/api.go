// Package pokeapi is the typed contract of the upstream catalog service: wire
// types for every resource the aggregators read and one method per endpoint.
package pokeapi

import (
	"context"
	"fmt"
	"strings"
)

// TaxonomyLimit is large enough to return the complete type and generation
// lists in one page.
const TaxonomyLimit = 100

// Getter fetches a reference and decodes its JSON body. *client.Client
// satisfies it.
type Getter interface {
	GetJSON(ctx context.Context, ref string, out any) error
}

// API exposes the upstream endpoints.
type API struct {
	getter Getter
}

// New creates an API over g.
func New(g Getter) *API {
	return &API{getter: g}
}

// ListPokemon fetches limit list references starting at offset.
func (a *API) ListPokemon(ctx context.Context, offset, limit int) (*ResourceList, error) {
	var list ResourceList
	ref := fmt.Sprintf("pokemon?offset=%d&limit=%d", offset, limit)
	if err := a.getter.GetJSON(ctx, ref, &list); err != nil {
		return nil, fmt.Errorf("list pokemon offset=%d limit=%d: %w", offset, limit, err)
	}
	return &list, nil
}

// Types fetches the type taxonomy.
func (a *API) Types(ctx context.Context) (*ResourceList, error) {
	var list ResourceList
	if err := a.getter.GetJSON(ctx, fmt.Sprintf("type?limit=%d", TaxonomyLimit), &list); err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	return &list, nil
}

// Generations fetches the generation taxonomy.
func (a *API) Generations(ctx context.Context) (*ResourceList, error) {
	var list ResourceList
	if err := a.getter.GetJSON(ctx, fmt.Sprintf("generation?limit=%d", TaxonomyLimit), &list); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return &list, nil
}

// Generation fetches one generation by URL, name or id.
func (a *API) Generation(ctx context.Context, ref string) (*Generation, error) {
	var gen Generation
	if err := a.getter.GetJSON(ctx, resourceRef("generation", ref), &gen); err != nil {
		return nil, fmt.Errorf("get generation %s: %w", ref, err)
	}
	return &gen, nil
}

// Pokemon fetches one entry by URL, name or id.
func (a *API) Pokemon(ctx context.Context, ref string) (*Pokemon, error) {
	var p Pokemon
	if err := a.getter.GetJSON(ctx, resourceRef("pokemon", ref), &p); err != nil {
		return nil, fmt.Errorf("get pokemon %s: %w", ref, err)
	}
	return &p, nil
}

// PokemonByID fetches one entry by numeric id.
func (a *API) PokemonByID(ctx context.Context, id int) (*Pokemon, error) {
	return a.Pokemon(ctx, fmt.Sprintf("pokemon/%d", id))
}

// Species fetches a species record by URL, name or id. Alternate forms
// share the species of their base entry, so callers should pass the
// species reference of the entry record rather than the entry id.
func (a *API) Species(ctx context.Context, ref string) (*Species, error) {
	var s Species
	if err := a.getter.GetJSON(ctx, resourceRef("pokemon-species", ref), &s); err != nil {
		return nil, fmt.Errorf("get species %s: %w", ref, err)
	}
	return &s, nil
}

// EvolutionChain fetches a chain document by URL or id.
func (a *API) EvolutionChain(ctx context.Context, ref string) (*EvolutionChain, error) {
	var chain EvolutionChain
	if err := a.getter.GetJSON(ctx, resourceRef("evolution-chain", ref), &chain); err != nil {
		return nil, fmt.Errorf("get evolution chain %s: %w", ref, err)
	}
	return &chain, nil
}

// Encounters fetches the location encounters of entry id.
func (a *API) Encounters(ctx context.Context, id int) ([]LocationAreaEncounter, error) {
	var encounters []LocationAreaEncounter
	if err := a.getter.GetJSON(ctx, fmt.Sprintf("pokemon/%d/encounters", id), &encounters); err != nil {
		return nil, fmt.Errorf("get encounters %d: %w", id, err)
	}
	return encounters, nil
}

// Move fetches one move by URL or name.
func (a *API) Move(ctx context.Context, ref string) (*Move, error) {
	var m Move
	if err := a.getter.GetJSON(ctx, resourceRef("move", ref), &m); err != nil {
		return nil, fmt.Errorf("get move %s: %w", ref, err)
	}
	return &m, nil
}

// resourceRef passes URLs and paths through and turns a bare name or id into
// "<kind>/<ref>".
func resourceRef(kind, ref string) string {
	if strings.Contains(ref, "/") {
		return ref
	}
	return kind + "/" + ref
}
