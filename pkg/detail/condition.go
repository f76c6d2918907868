package detail

import (
	"fmt"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
)

// ConditionKind is the kind of an evolution transition.
type ConditionKind string

const (
	ConditionMinLevel  ConditionKind = "min-level"
	ConditionTrade     ConditionKind = "trade"
	ConditionItem      ConditionKind = "item-use"
	ConditionHappiness ConditionKind = "happiness"
	ConditionBeauty    ConditionKind = "beauty"
	ConditionKnownMove ConditionKind = "required-move"
	ConditionLocation  ConditionKind = "location"
	ConditionSpecial   ConditionKind = "unspecified-special"
)

// Condition is the structured transition condition of a stage.
type Condition struct {
	Kind ConditionKind `json:"kind"`
	// Level is set for ConditionMinLevel.
	Level int `json:"level,omitempty"`
	// Name is the item, move or location for the kinds that carry one.
	Name string `json:"name,omitempty"`
}

// ConditionFromDetails classifies raw transition data. The first matching
// rule wins: min level, trade, item, happiness, beauty, known move, location.
// Zero and null values count as absent. A nil detail yields nil.
func ConditionFromDetails(d *pokeapi.EvolutionDetail) *Condition {
	if d == nil {
		return nil
	}

	switch {
	case d.MinLevel != nil && *d.MinLevel != 0:
		return &Condition{Kind: ConditionMinLevel, Level: *d.MinLevel}
	case d.Trigger != nil && d.Trigger.Name == "trade":
		return &Condition{Kind: ConditionTrade}
	case d.Item != nil:
		return &Condition{Kind: ConditionItem, Name: d.Item.Name}
	case d.MinHappiness != nil && *d.MinHappiness != 0:
		return &Condition{Kind: ConditionHappiness}
	case d.MinBeauty != nil && *d.MinBeauty != 0:
		return &Condition{Kind: ConditionBeauty}
	case d.KnownMove != nil:
		return &Condition{Kind: ConditionKnownMove, Name: d.KnownMove.Name}
	case d.Location != nil:
		return &Condition{Kind: ConditionLocation, Name: d.Location.Name}
	default:
		return &Condition{Kind: ConditionSpecial}
	}
}

// Label renders the condition for display. A nil condition renders empty.
func (c *Condition) Label() string {
	if c == nil {
		return ""
	}

	switch c.Kind {
	case ConditionMinLevel:
		return fmt.Sprintf("Nivel %d", c.Level)
	case ConditionTrade:
		return "Intercambio"
	case ConditionItem:
		return "Usa " + c.Name
	case ConditionHappiness:
		return "Felicidad"
	case ConditionBeauty:
		return "Belleza"
	case ConditionKnownMove:
		return "Con movimiento " + c.Name
	case ConditionLocation:
		return "En " + c.Name
	default:
		return "Condición especial"
	}
}
