package detail

import (
	"testing"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
)

func intPtr(n int) *int { return &n }

func named(name string) *pokeapi.NamedResource {
	return &pokeapi.NamedResource{Name: name}
}

func TestConditionFromDetails(t *testing.T) {
	tests := []struct {
		name      string
		details   *pokeapi.EvolutionDetail
		wantKind  ConditionKind
		wantLabel string
	}{
		{"level", &pokeapi.EvolutionDetail{MinLevel: intPtr(16), Trigger: named("level-up")}, ConditionMinLevel, "Nivel 16"},
		{"level beats item", &pokeapi.EvolutionDetail{MinLevel: intPtr(30), Item: named("moon-stone")}, ConditionMinLevel, "Nivel 30"},
		{"zero level is absent", &pokeapi.EvolutionDetail{MinLevel: intPtr(0), Trigger: named("trade")}, ConditionTrade, "Intercambio"},
		{"trade beats held item", &pokeapi.EvolutionDetail{Trigger: named("trade"), HeldItem: named("metal-coat")}, ConditionTrade, "Intercambio"},
		{"item", &pokeapi.EvolutionDetail{Trigger: named("use-item"), Item: named("thunder-stone")}, ConditionItem, "Usa thunder-stone"},
		{"happiness", &pokeapi.EvolutionDetail{Trigger: named("level-up"), MinHappiness: intPtr(220)}, ConditionHappiness, "Felicidad"},
		{"beauty", &pokeapi.EvolutionDetail{Trigger: named("level-up"), MinBeauty: intPtr(171)}, ConditionBeauty, "Belleza"},
		{"known move", &pokeapi.EvolutionDetail{Trigger: named("level-up"), KnownMove: named("ancient-power")}, ConditionKnownMove, "Con movimiento ancient-power"},
		{"location", &pokeapi.EvolutionDetail{Trigger: named("level-up"), Location: named("mt-coronet")}, ConditionLocation, "En mt-coronet"},
		{"special", &pokeapi.EvolutionDetail{Trigger: named("shed")}, ConditionSpecial, "Condición especial"},
		{"empty", &pokeapi.EvolutionDetail{}, ConditionSpecial, "Condición especial"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ConditionFromDetails(tt.details)
			if c == nil {
				t.Fatal("Expected a condition")
			}
			if c.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", c.Kind, tt.wantKind)
			}
			if c.Label() != tt.wantLabel {
				t.Errorf("Label = %q, want %q", c.Label(), tt.wantLabel)
			}
		})
	}
}

func TestConditionFromDetails_Nil(t *testing.T) {
	c := ConditionFromDetails(nil)
	if c != nil {
		t.Errorf("Expected nil, got %+v", c)
	}
	if c.Label() != "" {
		t.Errorf("nil Label = %q, want empty", c.Label())
	}
}
