package detail

import (
	"fmt"
	"testing"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
)

func link(id int, name string, details *pokeapi.EvolutionDetail, next ...pokeapi.ChainLink) pokeapi.ChainLink {
	l := pokeapi.ChainLink{
		Species:   pokeapi.NamedResource{Name: name, URL: fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", id)},
		EvolvesTo: next,
	}
	if details != nil {
		l.EvolutionDetails = []pokeapi.EvolutionDetail{*details}
	}
	return l
}

// linearChain builds a chain with n transitions starting at id 1.
func linearChain(n int) pokeapi.ChainLink {
	node := link(n+1, fmt.Sprintf("stage-%d", n+1), &pokeapi.EvolutionDetail{MinLevel: intPtr(n * 10)})
	for i := n; i >= 1; i-- {
		var details *pokeapi.EvolutionDetail
		if i > 1 {
			details = &pokeapi.EvolutionDetail{MinLevel: intPtr((i - 1) * 10)}
		}
		node = link(i, fmt.Sprintf("stage-%d", i), details, node)
	}
	return node
}

func TestWalkChain_LinearStages(t *testing.T) {
	for n := 0; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d transitions", n), func(t *testing.T) {
			var root pokeapi.ChainLink
			if n == 0 {
				root = link(1, "stage-1", nil)
			} else {
				root = linearChain(n)
			}

			stages := WalkChain(root)
			if len(stages) != n+1 {
				t.Fatalf("Got %d stages, want %d", len(stages), n+1)
			}
			for i, s := range stages {
				if s.ID != i+1 || s.Name != fmt.Sprintf("stage-%d", i+1) {
					t.Errorf("Stage %d = %d/%s", i, s.ID, s.Name)
				}
			}
			if stages[0].Condition != nil {
				t.Errorf("Root stage has condition %+v", stages[0].Condition)
			}
			for i := 1; i < len(stages); i++ {
				c := stages[i].Condition
				if c == nil || c.Kind != ConditionMinLevel || c.Level != i*10 {
					t.Errorf("Stage %d condition = %+v, want level %d", i, c, i*10)
				}
			}
		})
	}
}

func TestWalkChain_FollowsFirstBranch(t *testing.T) {
	root := link(133, "eevee", nil,
		link(134, "vaporeon", &pokeapi.EvolutionDetail{Item: named("water-stone")}),
		link(135, "jolteon", &pokeapi.EvolutionDetail{Item: named("thunder-stone")}),
		link(136, "flareon", &pokeapi.EvolutionDetail{Item: named("fire-stone")}),
	)

	stages := WalkChain(root)
	if len(stages) != 2 {
		t.Fatalf("Got %d stages, want 2", len(stages))
	}
	if stages[1].Name != "vaporeon" || stages[1].Condition.Label() != "Usa water-stone" {
		t.Errorf("Second stage = %s (%s)", stages[1].Name, stages[1].Condition.Label())
	}
}

func TestWalkChain_TransitionWithoutDetails(t *testing.T) {
	root := link(1, "a", nil, link(2, "b", nil))

	stages := WalkChain(root)
	if len(stages) != 2 {
		t.Fatalf("Got %d stages, want 2", len(stages))
	}
	if stages[1].Condition != nil {
		t.Errorf("Missing details should give nil condition, got %+v", stages[1].Condition)
	}
}

func TestWalkChain_SpriteURL(t *testing.T) {
	stages := WalkChain(link(25, "pikachu", nil))
	want := "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png"
	if stages[0].SpriteURL != want {
		t.Errorf("SpriteURL = %s", stages[0].SpriteURL)
	}
}
