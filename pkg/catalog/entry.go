package catalog

import (
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/Sternrassler/pokedex-client/pkg/typecolor"
)

// Entry is one resolved catalog item. It is never mutated after resolution.
type Entry struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Categories       []string `json:"categories"`
	HeightDecimeters int      `json:"height_decimeters"`
	WeightDecigrams  int      `json:"weight_decigrams"`
	ArtworkURL       string   `json:"artwork_url"`
}

// HeightMeters returns the display height.
func (e Entry) HeightMeters() float64 {
	return float64(e.HeightDecimeters) / 10
}

// WeightKilograms returns the display weight.
func (e Entry) WeightKilograms() float64 {
	return float64(e.WeightDecigrams) / 10
}

// HasCategory reports whether the entry carries category.
func (e Entry) HasCategory(category string) bool {
	for _, c := range e.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// EntryFromPokemon converts a detail record. The official artwork is
// preferred over the default sprite; an entry with neither gets the artwork
// URL derived from its id.
func EntryFromPokemon(p *pokeapi.Pokemon) Entry {
	var artwork string
	switch {
	case p.Sprites.Other.OfficialArtwork.FrontDefault != nil:
		artwork = *p.Sprites.Other.OfficialArtwork.FrontDefault
	case p.Sprites.FrontDefault != nil:
		artwork = *p.Sprites.FrontDefault
	default:
		artwork = typecolor.ArtworkURL(p.ID)
	}

	return Entry{
		ID:               p.ID,
		Name:             p.Name,
		Categories:       p.TypeNames(),
		HeightDecimeters: p.Height,
		WeightDecigrams:  p.Weight,
		ArtworkURL:       artwork,
	}
}

// CategoryRef is one entry of the category taxonomy.
type CategoryRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GenerationRef is one entry of the generation taxonomy.
type GenerationRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is the result of one list page.
type Page struct {
	Entries []Entry
	// NextCursor is nil once the upstream list is exhausted.
	NextCursor *int
}
