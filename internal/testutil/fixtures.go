package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
)

// PokemonFixture describes one catalog entry served by the mock.
type PokemonFixture struct {
	ID     int
	Name   string
	Types  []string
	Height int
	Weight int
	Moves  []MoveFixture
	// SpeciesID is the species of an alternate form; 0 means ID.
	SpeciesID int
}

// MoveFixture is one move of an entry with its first learn context.
type MoveFixture struct {
	Name   string
	Type   string
	Method string
	Level  int
}

var statNames = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// Pokemon builds the wire record of f with refs pointing at the mock.
func (m *MockPokeAPI) Pokemon(f PokemonFixture) pokeapi.Pokemon {
	speciesID := f.SpeciesID
	if speciesID == 0 {
		speciesID = f.ID
	}

	p := pokeapi.Pokemon{
		ID:      f.ID,
		Name:    f.Name,
		Height:  f.Height,
		Weight:  f.Weight,
		Species: pokeapi.NamedResource{Name: f.Name, URL: m.Ref("pokemon-species", speciesID)},
	}

	for i, t := range f.Types {
		p.Types = append(p.Types, pokeapi.PokemonType{
			Slot: i + 1,
			Type: pokeapi.NamedResource{Name: t, URL: m.Ref("type", t)},
		})
	}
	for i, name := range statNames {
		p.Stats = append(p.Stats, pokeapi.PokemonStat{
			BaseStat: 10 * (i + 1),
			Stat:     pokeapi.NamedResource{Name: name, URL: m.Ref("stat", i+1)},
		})
	}

	artwork := fmt.Sprintf("https://img.example/artwork/%d.png", f.ID)
	p.Sprites.Other.OfficialArtwork.FrontDefault = &artwork

	for _, mv := range f.Moves {
		slot := pokeapi.MoveSlot{Move: pokeapi.NamedResource{Name: mv.Name, URL: m.Ref("move", mv.Name)}}
		if mv.Method != "" {
			slot.VersionGroupDetails = []pokeapi.VersionGroupDetail{{
				LevelLearnedAt:  mv.Level,
				MoveLearnMethod: pokeapi.NamedResource{Name: mv.Method},
				VersionGroup:    pokeapi.NamedResource{Name: "red-blue"},
			}}
		}
		p.Moves = append(p.Moves, slot)
	}

	return p
}

// AddPokemon serves f at /pokemon/{id} and /pokemon/{name}, and each of its
// moves at /move/{name}.
func (m *MockPokeAPI) AddPokemon(f PokemonFixture) {
	p := m.Pokemon(f)
	m.SetJSON(fmt.Sprintf("/pokemon/%d", f.ID), p)
	m.SetJSON("/pokemon/"+f.Name, p)

	for _, mv := range f.Moves {
		damageClass := pokeapi.NamedResource{Name: "physical"}
		m.SetJSON("/move/"+mv.Name, pokeapi.Move{
			Name:        mv.Name,
			Type:        pokeapi.NamedResource{Name: mv.Type, URL: m.Ref("type", mv.Type)},
			DamageClass: &damageClass,
		})
	}
}

// SetPokemonList serves entries from /pokemon with offset/limit paging and
// registers each entry's detail record.
func (m *MockPokeAPI) SetPokemonList(entries []PokemonFixture) {
	refs := make([]pokeapi.NamedResource, 0, len(entries))
	for _, f := range entries {
		m.AddPokemon(f)
		refs = append(refs, pokeapi.NamedResource{Name: f.Name, URL: m.Ref("pokemon", f.ID)})
	}

	m.SetHandler("/pokemon", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			limit = 20
		}

		lo := min(offset, len(refs))
		hi := min(offset+limit, len(refs))
		list := pokeapi.ResourceList{Count: len(refs), Results: refs[lo:hi]}
		if hi < len(refs) {
			next := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", m.BaseURL(), hi, limit)
			list.Next = &next
		}
		writeJSON(w, list)
	})
}

// SpeciesFixture describes a species record.
type SpeciesFixture struct {
	ID         int
	Name       string
	Flavor     []pokeapi.FlavorText
	ChainID    int
	Generation string
}

// Flavor builds a flavor text entry in language lang.
func Flavor(lang, text string) pokeapi.FlavorText {
	return pokeapi.FlavorText{FlavorText: text, Language: pokeapi.NamedResource{Name: lang}}
}

// AddSpecies serves f at /pokemon-species/{id}.
func (m *MockPokeAPI) AddSpecies(f SpeciesFixture) {
	s := pokeapi.Species{ID: f.ID, Name: f.Name, FlavorTextEntries: f.Flavor}
	if f.ChainID > 0 {
		s.EvolutionChain = &pokeapi.APIResource{URL: m.Ref("evolution-chain", f.ChainID)}
	}
	if f.Generation != "" {
		s.Generation = &pokeapi.NamedResource{Name: f.Generation, URL: m.Ref("generation", f.Generation)}
	}
	m.SetJSON(fmt.Sprintf("/pokemon-species/%d", f.ID), s)
}

// Link builds a chain node for species id; next lists its transitions.
func (m *MockPokeAPI) Link(id int, name string, details *pokeapi.EvolutionDetail, next ...pokeapi.ChainLink) pokeapi.ChainLink {
	link := pokeapi.ChainLink{
		Species:   pokeapi.NamedResource{Name: name, URL: m.Ref("pokemon-species", id)},
		EvolvesTo: next,
	}
	if details != nil {
		link.EvolutionDetails = []pokeapi.EvolutionDetail{*details}
	}
	if link.EvolvesTo == nil {
		link.EvolvesTo = []pokeapi.ChainLink{}
	}
	return link
}

// AddEvolutionChain serves root at /evolution-chain/{id}.
func (m *MockPokeAPI) AddEvolutionChain(id int, root pokeapi.ChainLink) {
	m.SetJSON(fmt.Sprintf("/evolution-chain/%d", id), pokeapi.EvolutionChain{ID: id, Chain: root})
}

// AddEncounters serves encounters at /pokemon/{id}/encounters.
func (m *MockPokeAPI) AddEncounters(id int, encounters []pokeapi.LocationAreaEncounter) {
	if encounters == nil {
		encounters = []pokeapi.LocationAreaEncounter{}
	}
	m.SetJSON(fmt.Sprintf("/pokemon/%d/encounters", id), encounters)
}

// Encounter builds a location encounter seen in the given versions.
func Encounter(location string, versions ...string) pokeapi.LocationAreaEncounter {
	enc := pokeapi.LocationAreaEncounter{
		LocationArea:   pokeapi.NamedResource{Name: location},
		VersionDetails: []pokeapi.VersionEncounterDetail{},
	}
	for _, v := range versions {
		enc.VersionDetails = append(enc.VersionDetails, pokeapi.VersionEncounterDetail{
			MaxChance: 10,
			Version:   pokeapi.NamedResource{Name: v},
		})
	}
	return enc
}

// AddGeneration serves a generation whose members are the given species ids,
// listed in the given (possibly unsorted) order.
func (m *MockPokeAPI) AddGeneration(id int, name string, speciesIDs []int) {
	gen := pokeapi.Generation{ID: id, Name: name}
	for _, sid := range speciesIDs {
		gen.PokemonSpecies = append(gen.PokemonSpecies, pokeapi.NamedResource{
			Name: strconv.Itoa(sid),
			URL:  m.Ref("pokemon-species", sid),
		})
	}
	m.SetJSON(fmt.Sprintf("/generation/%d", id), gen)
	m.SetJSON("/generation/"+name, gen)
}

// SetTypes serves the type taxonomy.
func (m *MockPokeAPI) SetTypes(names ...string) {
	m.SetJSON("/type", m.namedList("type", names))
}

// SetGenerations serves the generation taxonomy.
func (m *MockPokeAPI) SetGenerations(names ...string) {
	m.SetJSON("/generation", m.namedList("generation", names))
}

func (m *MockPokeAPI) namedList(kind string, names []string) pokeapi.ResourceList {
	list := pokeapi.ResourceList{Count: len(names), Results: []pokeapi.NamedResource{}}
	for i, name := range names {
		list.Results = append(list.Results, pokeapi.NamedResource{Name: name, URL: m.Ref(kind, i+1)})
	}
	return list
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("testutil: encode response: %v", err))
	}
}
