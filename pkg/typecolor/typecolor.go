// Package typecolor holds the static display lookups shared by both
// pipelines: category colors, game mascots and sprite URLs.
package typecolor

import (
	"fmt"
	"strings"
)

// Foreground is the text contrast to use on a category background.
type Foreground string

const (
	// Light text (white) for dark backgrounds.
	Light Foreground = "light"
	// Dark text (black) for light backgrounds.
	Dark Foreground = "dark"
)

// Hex returns the CSS color of the foreground.
func (f Foreground) Hex() string {
	if f == Light {
		return "#FFFFFF"
	}
	return "#000000"
}

// Color is the display color pair of a category.
type Color struct {
	Background string
	Foreground Foreground
}

// Fallback is used for categories missing from the table.
var Fallback = Color{Background: "#e5e7eb", Foreground: Dark}

var colors = map[string]Color{
	"normal":   {"#A8A77A", Light},
	"fire":     {"#EE8130", Light},
	"water":    {"#6390F0", Light},
	"grass":    {"#7AC74C", Light},
	"electric": {"#F7D02C", Dark},
	"ice":      {"#96D9D6", Dark},
	"fighting": {"#C22E28", Light},
	"poison":   {"#A33EA1", Light},
	"ground":   {"#E2BF65", Dark},
	"flying":   {"#A98FF3", Dark},
	"psychic":  {"#F95587", Light},
	"bug":      {"#A6B91A", Dark},
	"rock":     {"#B6A136", Light},
	"ghost":    {"#735797", Light},
	"dragon":   {"#6F35FC", Light},
	"dark":     {"#705746", Light},
	"steel":    {"#B7B7CE", Dark},
	"fairy":    {"#D685AD", Dark},
}

// Lookup returns the color of category and whether it is known.
func Lookup(category string) (Color, bool) {
	c, ok := colors[strings.ToLower(category)]
	return c, ok
}

// For returns the color of category, or Fallback.
func For(category string) Color {
	if c, ok := Lookup(category); ok {
		return c
	}
	return Fallback
}

// SpriteBase is the root of the sprite repository.
const SpriteBase = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon"

// mascots maps a game version to the entry that represents it.
var mascots = map[string]int{
	"red":            6,
	"blue":           9,
	"yellow":         25,
	"gold":           250,
	"silver":         249,
	"crystal":        245,
	"ruby":           383,
	"sapphire":       382,
	"emerald":        384,
	"firered":        6,
	"leafgreen":      3,
	"diamond":        483,
	"pearl":          484,
	"platinum":       487,
	"heartgold":      250,
	"soulsilver":     249,
	"black":          643,
	"white":          644,
	"black-2":        646,
	"white-2":        646,
	"x":              716,
	"y":              717,
	"omega-ruby":     383,
	"alpha-sapphire": 382,
	"sun":            791,
	"moon":           792,
	"ultra-sun":      800,
	"ultra-moon":     800,
	"sword":          888,
	"shield":         889,
	"legends-arceus": 493,
}

// GameMascot returns the mascot id of a game version, 0 when unknown.
func GameMascot(version string) int {
	return mascots[version]
}

// SpriteURL returns the front sprite of entry id.
func SpriteURL(id int) string {
	return fmt.Sprintf("%s/%d.png", SpriteBase, id)
}

// ArtworkURL returns the official artwork of entry id.
func ArtworkURL(id int) string {
	return fmt.Sprintf("%s/other/official-artwork/%d.png", SpriteBase, id)
}

// VersionSpriteURL returns the mascot sprite of a game version.
func VersionSpriteURL(version string) string {
	return SpriteURL(GameMascot(version))
}
