package detail

import (
	"strings"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
)

// DescriptionLanguages is the language preference of SelectDescription.
var DescriptionLanguages = []string{"es", "en"}

var controlReplacer = strings.NewReplacer("\f", " ", "\n", " ")

// SelectDescription returns the first flavor text in the most preferred
// language available, with form feeds and newlines replaced by spaces.
func SelectDescription(entries []pokeapi.FlavorText) string {
	for _, lang := range DescriptionLanguages {
		for _, e := range entries {
			if e.Language.Name == lang {
				return controlReplacer.Replace(e.FlavorText)
			}
		}
	}
	return ""
}

// GenerationLabel turns "generation-iv" into "IV".
func GenerationLabel(name string) string {
	return strings.ToUpper(strings.TrimPrefix(name, "generation-"))
}

// SpeciesInfo is the part of the species record the detail uses.
type SpeciesInfo struct {
	Description       string
	EvolutionChainRef string
	GenerationRef     string
}

func speciesInfo(s *pokeapi.Species) SpeciesInfo {
	info := SpeciesInfo{Description: SelectDescription(s.FlavorTextEntries)}
	if s.EvolutionChain != nil {
		info.EvolutionChainRef = s.EvolutionChain.URL
	}
	if s.Generation != nil {
		info.GenerationRef = s.Generation.URL
		if info.GenerationRef == "" {
			info.GenerationRef = s.Generation.Name
		}
	}
	return info
}
