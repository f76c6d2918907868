package detail

import (
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/Sternrassler/pokedex-client/pkg/typecolor"
)

// WalkChain flattens a chain document root-to-leaf. Only the first outgoing
// transition of each node is followed, so a chain with N transitions on its
// first branch yields N+1 stages. Categories are left empty.
func WalkChain(root pokeapi.ChainLink) []EvolutionStage {
	var stages []EvolutionStage
	var condition *Condition

	for link := &root; link != nil; {
		id, _ := pokeapi.IDFromURL(link.Species.URL)
		stages = append(stages, EvolutionStage{
			ID:         id,
			Name:       link.Species.Name,
			Categories: []string{},
			Condition:  condition,
			SpriteURL:  typecolor.SpriteURL(id),
		})

		if len(link.EvolvesTo) == 0 {
			break
		}
		next := &link.EvolvesTo[0]
		condition = nil
		if len(next.EvolutionDetails) > 0 {
			condition = ConditionFromDetails(&next.EvolutionDetails[0])
		}
		link = next
	}

	return stages
}
