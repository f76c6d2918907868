package detail

import (
	"sort"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LevelUpMethod is the learn method of level-learned moves.
const LevelUpMethod = "level-up"

// MoveRowFromSlot joins a raw move reference with its resolved record. Only
// the first learn context is used; a move without one gets level 0 and an
// empty method.
func MoveRowFromSlot(slot pokeapi.MoveSlot, move *pokeapi.Move) MoveRow {
	row := MoveRow{Name: slot.Move.Name}
	if move != nil {
		row.Category = move.Type.Name
	}
	if len(slot.VersionGroupDetails) > 0 {
		first := slot.VersionGroupDetails[0]
		row.Level = first.LevelLearnedAt
		row.Method = first.MoveLearnMethod.Name
	}
	return row
}

// SortMoves returns the display order of a move table: level-up moves with a
// level above zero ascending by level, followed by every other move sorted
// alphabetically by name. Ties keep their input order. rows is not modified.
func SortMoves(rows []MoveRow) []MoveRow {
	var leveled, rest []MoveRow
	for _, r := range rows {
		if r.Method == LevelUpMethod && r.Level > 0 {
			leveled = append(leveled, r)
		} else {
			rest = append(rest, r)
		}
	}

	sort.SliceStable(leveled, func(i, j int) bool {
		return leveled[i].Level < leveled[j].Level
	})

	// A Collator is not safe for concurrent use.
	c := collate.New(language.Und)
	sort.SliceStable(rest, func(i, j int) bool {
		return c.CompareString(rest[i].Name, rest[j].Name) < 0
	})

	out := make([]MoveRow, 0, len(rows))
	out = append(out, leveled...)
	return append(out, rest...)
}
