package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/internal/testutil"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
)

func TestSession_InitAndPaging(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(25))
	mock.SetTypes("grass", "fire", "water", "unknown", "shadow")
	mock.SetGenerations("generation-i", "generation-ii")

	s := NewSession(NewAggregator(newTestAPI(t, mock), nil), 10)
	ctx := context.Background()

	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	view := s.View()
	if len(view.Visible) != 10 || !view.HasMore || view.Loading {
		t.Fatalf("After Init: visible=%d hasMore=%v loading=%v", len(view.Visible), view.HasMore, view.Loading)
	}
	if !reflect.DeepEqual(view.CategoryOptions, []string{All, "grass", "fire", "water"}) {
		t.Errorf("CategoryOptions = %v", view.CategoryOptions)
	}
	if !reflect.DeepEqual(view.GenerationOptions, []string{All, "generation-i", "generation-ii"}) {
		t.Errorf("GenerationOptions = %v", view.GenerationOptions)
	}

	for {
		err := s.LoadMore(ctx)
		if errors.Is(err, pagination.ErrExhausted) {
			break
		}
		if err != nil {
			t.Fatalf("LoadMore failed: %v", err)
		}
	}

	view = s.View()
	if view.HasMore {
		t.Error("HasMore should be false after the last page")
	}
	if got := ids(view.Visible); len(got) != 25 || got[0] != 1 || got[24] != 25 {
		t.Errorf("Resolved ids = %v", got)
	}
}

func TestSession_DegradedTaxonomy(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(3))
	mock.SetResponse("/type", testutil.NewServerErrorResponse())
	// no /generation handler: 404

	s := NewSession(NewAggregator(newTestAPI(t, mock), nil), 10)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init should not fail on taxonomy errors: %v", err)
	}

	view := s.View()
	if !reflect.DeepEqual(view.CategoryOptions, []string{All}) {
		t.Errorf("CategoryOptions = %v, want [all]", view.CategoryOptions)
	}
	if !reflect.DeepEqual(view.GenerationOptions, []string{All}) {
		t.Errorf("GenerationOptions = %v, want [all]", view.GenerationOptions)
	}
	if len(view.Visible) != 3 {
		t.Errorf("Visible = %d, want 3", len(view.Visible))
	}
}

func TestSession_GenerationFirstSkipsListPage(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(30))
	mock.SetTypes("grass", "fire", "water")
	mock.SetGenerations("generation-i", "generation-ii")
	mock.AddGeneration(2, "generation-ii", []int{22, 21})

	s := NewSession(NewAggregator(newTestAPI(t, mock), nil), 10)
	ctx := context.Background()

	s.LoadTaxonomies(ctx)
	if err := s.SetGeneration(ctx, "generation-ii"); err != nil {
		t.Fatalf("SetGeneration failed: %v", err)
	}

	view := s.View()
	if got := ids(view.Visible); !reflect.DeepEqual(got, []int{21, 22}) {
		t.Errorf("Visible = %v, want [21 22]", got)
	}
	if want := []string{All, "generation-i", "generation-ii"}; !reflect.DeepEqual(view.GenerationOptions, want) {
		t.Errorf("GenerationOptions = %v, want %v", view.GenerationOptions, want)
	}
	if hits := mock.Hits("/pokemon"); hits != 0 {
		t.Errorf("List endpoint fetched %d times, want 0", hits)
	}
	if hits := mock.Hits("/pokemon/1"); hits != 0 {
		t.Errorf("Non-member entry fetched %d times, want 0", hits)
	}
}

func TestSession_FiltersDoNotFetch(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(9))

	s := NewSession(NewAggregator(newTestAPI(t, mock), nil), 20)
	if err := s.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	requests := mock.RequestCount()

	s.SetCategory("fire")
	if got := ids(s.View().Visible); !reflect.DeepEqual(got, []int{1, 4, 7}) {
		t.Errorf("fire = %v, want [1 4 7]", got)
	}

	s.SetNameQuery("MON-00")
	s.SetIDQuery("4")
	if got := ids(s.View().Visible); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("fire+name+id = %v, want [4]", got)
	}

	s.SetCategory("")
	s.SetNameQuery("")
	s.SetIDQuery("")
	if got := len(s.View().Visible); got != 9 {
		t.Errorf("Cleared filters show %d, want 9", got)
	}
	if len(s.Resolved()) != 9 {
		t.Errorf("Resolved changed by filtering: %d", len(s.Resolved()))
	}

	if mock.RequestCount() != requests {
		t.Errorf("Filtering issued %d requests", mock.RequestCount()-requests)
	}
}

func TestSession_GenerationSuspendsAndRestarts(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(30))
	mock.AddGeneration(2, "generation-ii", []int{22, 21, 20})

	s := NewSession(NewAggregator(newTestAPI(t, mock), nil), 10)
	ctx := context.Background()

	if err := s.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if err := s.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	if err := s.SetGeneration(ctx, "generation-ii"); err != nil {
		t.Fatalf("SetGeneration failed: %v", err)
	}
	view := s.View()
	if got := ids(view.Visible); !reflect.DeepEqual(got, []int{20, 21, 22}) {
		t.Errorf("Generation set = %v, want [20 21 22]", got)
	}
	if view.HasMore {
		t.Error("HasMore should be false under a generation filter")
	}
	if err := s.LoadMore(ctx); !errors.Is(err, pagination.ErrExhausted) {
		t.Errorf("LoadMore under generation filter: %v, want ErrExhausted", err)
	}

	s.SetCategory("fire")
	if got := ids(s.View().Visible); !reflect.DeepEqual(got, []int{22}) {
		t.Errorf("Category on top of generation = %v, want [22]", got)
	}
	s.SetCategory(All)

	if err := s.SetGeneration(ctx, All); err != nil {
		t.Fatalf("SetGeneration(all) failed: %v", err)
	}
	view = s.View()
	if got := ids(view.Visible); len(got) != 10 || got[0] != 1 {
		t.Errorf("Restart from zero = %v", got)
	}
	if !view.HasMore {
		t.Error("HasMore should be true after restart")
	}
}

func TestSession_FailedPageStalls(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(5))
	mock.SetResponse("/pokemon/3", testutil.NewServerErrorResponse())

	s := NewSession(NewAggregator(newTestAPI(t, mock), nil), 10)
	if err := s.LoadMore(context.Background()); err == nil {
		t.Fatal("Expected page failure")
	}

	view := s.View()
	if view.Err == nil || view.Loading || len(view.Visible) != 0 {
		t.Errorf("Unexpected view after failure: err=%v loading=%v visible=%d", view.Err, view.Loading, len(view.Visible))
	}
	if !view.HasMore {
		t.Error("A failed page should leave HasMore so the caller may request it again")
	}
}

// gatedSource blocks ListPokemon until released, ignoring cancellation so
// the page completes after the session has moved on.
type gatedSource struct {
	Source
	started chan struct{}
	release chan struct{}
}

func (g *gatedSource) ListPokemon(ctx context.Context, offset, limit int) (*pokeapi.ResourceList, error) {
	close(g.started)
	<-g.release
	return g.Source.ListPokemon(context.Background(), offset, limit)
}

func TestSession_SupersededPageDropped(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetPokemonList(fixtures(30))
	mock.AddGeneration(1, "generation-i", []int{3, 1, 2})

	src := &gatedSource{
		Source:  newTestAPI(t, mock),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(NewAggregator(src, nil), 10)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.LoadMore(ctx) }()

	select {
	case <-src.started:
	case <-time.After(2 * time.Second):
		t.Fatal("page request never started")
	}
	if err := s.LoadMore(ctx); !errors.Is(err, pagination.ErrPageInFlight) {
		t.Errorf("Concurrent LoadMore: %v, want ErrPageInFlight", err)
	}

	if err := s.SetGeneration(ctx, "generation-i"); err != nil {
		t.Fatalf("SetGeneration failed: %v", err)
	}
	close(src.release)

	select {
	case err := <-done:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("Stale page returned %v, want ErrSuperseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stale page never completed")
	}

	if got := ids(s.View().Visible); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Visible = %v, want only the generation set [1 2 3]", got)
	}
}

func TestSession_Dedup(t *testing.T) {
	s := NewSession(NewAggregator(nil, nil), 10)

	s.mu.Lock()
	s.appendLocked([]Entry{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	s.appendLocked([]Entry{{ID: 2, Name: "b-again"}, {ID: 3, Name: "c"}})
	s.mu.Unlock()

	got := s.Resolved()
	if !reflect.DeepEqual(ids(got), []int{1, 2, 3}) || got[1].Name != "b" {
		t.Errorf("Dedup kept %+v", got)
	}
}
