package detail

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Sternrassler/pokedex-client/pkg/catalog"
	"github.com/Sternrassler/pokedex-client/pkg/typecolor"
)

// ErrNotFound is returned when the primary record of an entry does not exist.
var ErrNotFound = errors.New("entry not found")

// ViewModel is the joined detail of one entry. It is built once per
// navigation and never mutated afterwards.
type ViewModel struct {
	Entry           catalog.Entry    `json:"entry"`
	Stats           []Stat           `json:"stats"`
	Description     string           `json:"description"`
	GenerationLabel string           `json:"generation_label"`
	EvolutionChain  []EvolutionStage `json:"evolution_chain"`
	Encounters      []EncounterRow   `json:"encounters"`
	Moves           []MoveRow        `json:"moves"`
}

// ObtainText is the description, or a fixed phrase when there is none.
func (vm *ViewModel) ObtainText() string {
	if vm.Description == "" {
		return "No hay información específica en la API."
	}
	return vm.Description
}

// Stat is one base stat.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EvolutionStage is one node of the linear evolution chain. Condition is the
// transition into this stage; the root stage has none.
type EvolutionStage struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Categories []string   `json:"categories"`
	Condition  *Condition `json:"condition,omitempty"`
	SpriteURL  string     `json:"sprite_url"`
}

// MoveRow is one row of the move table.
type MoveRow struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// Level is 0 when the move is not level-learned.
	Level  int    `json:"level"`
	Method string `json:"method"`
}

// LevelLabel renders the level column.
func (m MoveRow) LevelLabel() string {
	if m.Level > 0 {
		return strconv.Itoa(m.Level)
	}
	return "-"
}

// Color returns the display color of the move's category.
func (m MoveRow) Color() typecolor.Color {
	return typecolor.For(m.Category)
}

// DisplayName is the move name with hyphens as spaces.
func (m MoveRow) DisplayName() string {
	return strings.ReplaceAll(m.Name, "-", " ")
}

// DisplayMethod is the learn method with hyphens as spaces.
func (m MoveRow) DisplayMethod() string {
	return strings.ReplaceAll(m.Method, "-", " ")
}

// EncounterRow is one (version, location) pair an entry can be found at.
type EncounterRow struct {
	Version string `json:"version"`
	// Location is in display form: hyphens replaced by spaces.
	Location  string `json:"location"`
	Context   string `json:"context"`
	SpriteURL string `json:"sprite_url"`
}
