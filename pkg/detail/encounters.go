package detail

import (
	"strings"

	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/Sternrassler/pokedex-client/pkg/typecolor"
)

// captureRules is matched in order against the raw location name.
var captureRules = []struct {
	keyword string
	phrase  string
}{
	{"route", "Capturable en ruta"},
	{"cave", "Capturable en cueva"},
	{"forest", "Capturable en bosque"},
	{"tower", "Capturable en torre"},
	{"city", "Capturable en ciudad"},
	{"lake", "Capturable en lago"},
	{"mountain", "Capturable en montaña"},
	{"safari", "Capturable en safari"},
	{"power-plant", "Capturable en central eléctrica"},
	{"sea", "Capturable en mar"},
	{"island", "Capturable en isla"},
	{"desert", "Capturable en desierto"},
	{"lab", "Obtenible en laboratorio"},
}

// DefaultCaptureContext is used when no keyword matches.
const DefaultCaptureContext = "Capturable en esa localización"

// CaptureContext derives the capture phrase of a location name. The first
// matching keyword wins.
func CaptureContext(location string) string {
	for _, rule := range captureRules {
		if strings.Contains(location, rule.keyword) {
			return rule.phrase
		}
	}
	return DefaultCaptureContext
}

// ExpandEncounters produces one row per (location, version) pair. Locations
// with no version details are dropped.
func ExpandEncounters(encounters []pokeapi.LocationAreaEncounter) []EncounterRow {
	rows := make([]EncounterRow, 0, len(encounters))
	for _, enc := range encounters {
		raw := enc.LocationArea.Name
		location := strings.ReplaceAll(raw, "-", " ")
		phrase := CaptureContext(raw)

		for _, vd := range enc.VersionDetails {
			rows = append(rows, EncounterRow{
				Version:   vd.Version.Name,
				Location:  location,
				Context:   phrase,
				SpriteURL: typecolor.VersionSpriteURL(vd.Version.Name),
			})
		}
	}
	return rows
}
