package pokeapi

import (
	"strconv"
	"strings"
)

// NamedResource is a reference to another resource by name and URL.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID returns the numeric identifier at the end of the resource URL.
func (r NamedResource) ID() (int, bool) {
	return IDFromURL(r.URL)
}

// APIResource is an unnamed reference.
type APIResource struct {
	URL string `json:"url"`
}

// ResourceList is one page of a list endpoint.
type ResourceList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// HasNext reports whether the upstream list continues past this page.
func (l *ResourceList) HasNext() bool {
	return l.Next != nil && *l.Next != ""
}

// Pokemon is the per-entry detail record.
type Pokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Height  int           `json:"height"`
	Weight  int           `json:"weight"`
	Types   []PokemonType `json:"types"`
	Stats   []PokemonStat `json:"stats"`
	Sprites Sprites       `json:"sprites"`
	Moves   []MoveSlot    `json:"moves"`
	Species NamedResource `json:"species"`
}

// TypeNames returns the type names in slot order.
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// PokemonType is one type slot.
type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// PokemonStat is one base stat.
type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// Sprites holds the image references used by the catalog.
type Sprites struct {
	FrontDefault *string      `json:"front_default"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites holds alternate artwork sets.
type OtherSprites struct {
	OfficialArtwork Artwork `json:"official-artwork"`
}

// Artwork is a single artwork set.
type Artwork struct {
	FrontDefault *string `json:"front_default"`
}

// MoveSlot is a move reference with its learn contexts.
type MoveSlot struct {
	Move                NamedResource        `json:"move"`
	VersionGroupDetails []VersionGroupDetail `json:"version_group_details"`
}

// VersionGroupDetail is one learn context.
type VersionGroupDetail struct {
	LevelLearnedAt  int           `json:"level_learned_at"`
	MoveLearnMethod NamedResource `json:"move_learn_method"`
	VersionGroup    NamedResource `json:"version_group"`
}

// Species carries localized text and the evolution/generation references.
type Species struct {
	ID                int            `json:"id"`
	Name              string         `json:"name"`
	FlavorTextEntries []FlavorText   `json:"flavor_text_entries"`
	EvolutionChain    *APIResource   `json:"evolution_chain"`
	Generation        *NamedResource `json:"generation"`
}

// FlavorText is a localized description.
type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

// EvolutionChain is the nested transition graph of a family.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one node of the evolution graph.
type ChainLink struct {
	IsBaby           bool              `json:"is_baby"`
	Species          NamedResource     `json:"species"`
	EvolutionDetails []EvolutionDetail `json:"evolution_details"`
	EvolvesTo        []ChainLink       `json:"evolves_to"`
}

// EvolutionDetail describes the condition of one transition. Absent
// conditions decode as nil or zero.
type EvolutionDetail struct {
	Item          *NamedResource `json:"item"`
	Trigger       *NamedResource `json:"trigger"`
	HeldItem      *NamedResource `json:"held_item"`
	KnownMove     *NamedResource `json:"known_move"`
	KnownMoveType *NamedResource `json:"known_move_type"`
	Location      *NamedResource `json:"location"`
	MinLevel      *int           `json:"min_level"`
	MinHappiness  *int           `json:"min_happiness"`
	MinBeauty     *int           `json:"min_beauty"`
	MinAffection  *int           `json:"min_affection"`
	TimeOfDay     string         `json:"time_of_day"`
}

// LocationAreaEncounter lists where an entry can be found, per version.
type LocationAreaEncounter struct {
	LocationArea   NamedResource            `json:"location_area"`
	VersionDetails []VersionEncounterDetail `json:"version_details"`
}

// VersionEncounterDetail is one game version an encounter appears in.
type VersionEncounterDetail struct {
	MaxChance        int           `json:"max_chance"`
	Version          NamedResource `json:"version"`
	EncounterDetails []Encounter   `json:"encounter_details"`
}

// Encounter is a single encounter method/level range.
type Encounter struct {
	MinLevel int           `json:"min_level"`
	MaxLevel int           `json:"max_level"`
	Chance   int           `json:"chance"`
	Method   NamedResource `json:"method"`
}

// Move is the per-move record.
type Move struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Type        NamedResource  `json:"type"`
	DamageClass *NamedResource `json:"damage_class"`
	Power       *int           `json:"power"`
	Accuracy    *int           `json:"accuracy"`
	PP          *int           `json:"pp"`
}

// Generation is a release era with its species members.
type Generation struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	MainRegion     NamedResource   `json:"main_region"`
	PokemonSpecies []NamedResource `json:"pokemon_species"`
}

// IDFromURL extracts the trailing positive integer of a resource URL such as
// https://pokeapi.co/api/v2/pokemon-species/25/.
func IDFromURL(url string) (int, bool) {
	trimmed := strings.TrimRight(url, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0, false
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
