package catalog

import (
	"strconv"
	"strings"
)

// All is the filter sentinel that matches every entry.
const All = "all"

// Filters is the catalog filter state.
type Filters struct {
	// Category is All or exactly one category tag.
	Category string `json:"category"`
	// Generation is All or one generation reference. It narrows the resolved
	// set at fetch time, so ApplyFilters does not evaluate it.
	Generation string `json:"generation"`
	// Name is a case-insensitive substring.
	Name string `json:"name"`
	// ID is matched by exact string equality against the identifier.
	ID string `json:"id"`
}

// DefaultFilters matches everything.
func DefaultFilters() Filters {
	return Filters{Category: All, Generation: All}
}

// ApplyFilters derives the visible entries from the resolved set. It never
// modifies entries and preserves their order.
func ApplyFilters(entries []Entry, f Filters) []Entry {
	name := strings.ToLower(f.Name)

	visible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Category != "" && f.Category != All && !e.HasCategory(f.Category) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if f.ID != "" && strconv.Itoa(e.ID) != f.ID {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}
