package catalog

import (
	"reflect"
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		{ID: 1, Name: "bulbasaur", Categories: []string{"grass", "poison"}},
		{ID: 4, Name: "charmander", Categories: []string{"fire"}},
		{ID: 25, Name: "pikachu", Categories: []string{"electric"}},
		{ID: 26, Name: "raichu", Categories: []string{"electric"}},
		{ID: 172, Name: "pichu", Categories: []string{"electric"}},
		{ID: 250, Name: "ho-oh", Categories: []string{"fire", "flying"}},
	}
}

func ids(entries []Entry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestApplyFilters_Identity(t *testing.T) {
	entries := sampleEntries()

	got := ApplyFilters(entries, DefaultFilters())
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("Default filters changed the set:\n got %v\nwant %v", ids(got), ids(entries))
	}

	// Zero-value filters behave the same.
	if got := ApplyFilters(entries, Filters{}); !reflect.DeepEqual(got, entries) {
		t.Errorf("Zero filters changed the set: %v", ids(got))
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	entries := sampleEntries()
	filters := []Filters{
		DefaultFilters(),
		{Category: "electric", Generation: All},
		{Category: All, Generation: All, Name: "chu"},
		{Category: "fire", Generation: All, Name: "O"},
		{Category: All, Generation: All, ID: "25"},
	}

	for _, f := range filters {
		once := ApplyFilters(entries, f)
		twice := ApplyFilters(once, f)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Filters %+v not idempotent: %v vs %v", f, ids(once), ids(twice))
		}
	}
}

func TestApplyFilters_NameCaseInsensitive(t *testing.T) {
	entries := sampleEntries()

	upper := ApplyFilters(entries, Filters{Category: All, Generation: All, Name: "PIKA"})
	lower := ApplyFilters(entries, Filters{Category: All, Generation: All, Name: "pika"})

	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("Case changed result: %v vs %v", ids(upper), ids(lower))
	}
	if !reflect.DeepEqual(ids(lower), []int{25}) {
		t.Errorf("Name pika matched %v, want [25]", ids(lower))
	}
}

func TestApplyFilters_IDExact(t *testing.T) {
	entries := sampleEntries()

	tests := []struct {
		query string
		want  []int
	}{
		{"25", []int{25}},
		{"025", []int{}},
		{"2", []int{}},
		{"", []int{1, 4, 25, 26, 172, 250}},
	}

	for _, tt := range tests {
		t.Run("id="+tt.query, func(t *testing.T) {
			got := ids(ApplyFilters(entries, Filters{Category: All, Generation: All, ID: tt.query}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ID %q matched %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestApplyFilters_CategoryThenPredicates(t *testing.T) {
	entries := sampleEntries()

	tests := []struct {
		name    string
		filters Filters
		want    []int
	}{
		{"category only", Filters{Category: "electric"}, []int{25, 26, 172}},
		{"second slot counts", Filters{Category: "flying"}, []int{250}},
		{"category and name", Filters{Category: "electric", Name: "ch"}, []int{25, 26, 172}},
		{"category and name narrow", Filters{Category: "fire", Name: "char"}, []int{4}},
		{"name and id", Filters{Name: "chu", ID: "26"}, []int{26}},
		{"name and id disjoint", Filters{Name: "pika", ID: "26"}, []int{}},
		{"generation ignored", Filters{Category: All, Generation: "generation-ii"}, []int{1, 4, 25, 26, 172, 250}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ApplyFilters(entries, tt.filters))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyFilters_DoesNotMutate(t *testing.T) {
	entries := sampleEntries()
	before := ids(entries)

	ApplyFilters(entries, Filters{Category: "fire"})

	if !reflect.DeepEqual(ids(entries), before) {
		t.Errorf("Input mutated: %v", ids(entries))
	}
}

func TestEntry_DisplayUnits(t *testing.T) {
	e := Entry{HeightDecimeters: 4, WeightDecigrams: 60}
	if e.HeightMeters() != 0.4 {
		t.Errorf("HeightMeters = %v, want 0.4", e.HeightMeters())
	}
	if e.WeightKilograms() != 6 {
		t.Errorf("WeightKilograms = %v, want 6", e.WeightKilograms())
	}
}
