package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the number of list references per page.
const DefaultPageSize = 100

// ErrSuperseded is returned when a fetch completed after the session moved
// on (generation changed); its result was discarded.
var ErrSuperseded = errors.New("catalog fetch superseded")

// View is the presentation snapshot of a session.
type View struct {
	Visible           []Entry
	Loading           bool
	HasMore           bool
	Err               error
	Filters           Filters
	CategoryOptions   []string
	GenerationOptions []string
}

// Session is the state of one catalog route: the resolved entries, the
// paging protocol and the filters. Resolved entries are append-only and
// de-duplicated by identifier.
type Session struct {
	agg      *Aggregator
	pager    *pagination.Pager
	pageSize int
	logger   zerolog.Logger

	mu          sync.Mutex
	resolved    []Entry
	seen        map[int]struct{}
	filters     Filters
	categories  []string
	generations []string
	err         error
	cancel      context.CancelFunc
}

// NewSession creates a session. pageSize <= 0 uses DefaultPageSize.
func NewSession(agg *Aggregator, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{
		agg:      agg,
		pager:    pagination.NewPager(pageSize),
		pageSize: pageSize,
		logger:   log.With().Str("component", "catalog").Logger(),
		seen:     make(map[int]struct{}),
		filters:  DefaultFilters(),
	}
}

// Init loads both taxonomies and the first page. Taxonomy failures degrade
// the options to "all" only and are not returned.
func (s *Session) Init(ctx context.Context) error {
	s.LoadTaxonomies(ctx)
	return s.LoadMore(ctx)
}

// LoadTaxonomies loads the category and generation options concurrently
// without touching the paging state. A session that starts on a generation
// calls it instead of Init, so no list page is fetched only to be dropped.
func (s *Session) LoadTaxonomies(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		refs, err := s.agg.LoadCategories(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Category taxonomy unavailable")
			return nil
		}
		names := make([]string, 0, len(refs))
		for _, r := range refs {
			names = append(names, r.Name)
		}
		s.mu.Lock()
		s.categories = names
		s.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		refs, err := s.agg.LoadGenerations(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Generation taxonomy unavailable")
			return nil
		}
		names := make([]string, 0, len(refs))
		for _, r := range refs {
			names = append(names, r.Name)
		}
		s.mu.Lock()
		s.generations = names
		s.mu.Unlock()
		return nil
	})

	g.Wait()
}

// LoadMore fetches the next page. It returns pagination.ErrPageInFlight
// while a page is outstanding, pagination.ErrExhausted when there is nothing
// more to load, and ErrSuperseded when the result arrived too late to apply.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	ticket, err := s.pager.Begin()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	pageCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	page, err := s.agg.FetchPage(pageCtx, ticket.Cursor, s.pageSize)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pager.Current(ticket) {
		s.dropStale(ticket)
		return ErrSuperseded
	}
	if err != nil {
		s.pager.Fail(ticket)
		s.err = err
		s.logger.Error().Err(err).Int("cursor", ticket.Cursor).Msg("Catalog page failed")
		return err
	}

	s.pager.Complete(ticket, page.NextCursor != nil)
	s.err = nil
	s.appendLocked(page.Entries)
	return nil
}

// SetGeneration changes the generation filter. Any in-flight fetch is
// cancelled and its result discarded, the resolved set is cleared, and
// either the generation's complete set is fetched (paging suspended) or,
// for All, paging restarts from cursor zero.
func (s *Session) SetGeneration(ctx context.Context, generation string) error {
	if generation == "" {
		generation = All
	}

	s.mu.Lock()
	s.filters.Generation = generation
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.resolved = nil
	s.seen = make(map[int]struct{})
	s.err = nil

	if generation == All {
		s.pager.Reset()
		s.mu.Unlock()
		return s.LoadMore(ctx)
	}

	ticket := s.pager.Suspend()
	genCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	entries, err := s.agg.FetchByGeneration(genCtx, generation)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pager.Current(ticket) {
		s.dropStale(ticket)
		return ErrSuperseded
	}
	if err != nil {
		s.pager.Fail(ticket)
		s.err = err
		s.logger.Error().Err(err).Str("generation", generation).Msg("Generation fetch failed")
		return err
	}

	s.pager.Complete(ticket, false)
	s.appendLocked(entries)
	return nil
}

// SetCategory changes the category filter. No fetch is issued.
func (s *Session) SetCategory(category string) {
	if category == "" {
		category = All
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Category = category
}

// SetNameQuery changes the name query. No fetch is issued.
func (s *Session) SetNameQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Name = q
}

// SetIDQuery changes the identifier query. No fetch is issued.
func (s *Session) SetIDQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.ID = q
}

// Resolved returns a copy of the resolved entries in retrieval order.
func (s *Session) Resolved() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.resolved...)
}

// View derives the presentation snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.pager.State()
	return View{
		Visible:           ApplyFilters(s.resolved, s.filters),
		Loading:           state.InFlight,
		HasMore:           state.HasMore,
		Err:               s.err,
		Filters:           s.filters,
		CategoryOptions:   withAll(s.categories),
		GenerationOptions: withAll(s.generations),
	}
}

// Close cancels any in-flight fetch.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// appendLocked adds entries not seen before, keeping first-seen order.
func (s *Session) appendLocked(entries []Entry) {
	for _, e := range entries {
		if _, dup := s.seen[e.ID]; dup {
			continue
		}
		s.seen[e.ID] = struct{}{}
		s.resolved = append(s.resolved, e)
	}
}

func (s *Session) dropStale(ticket pagination.Ticket) {
	pagination.StaleCompletions.WithLabelValues("catalog").Inc()
	s.logger.Warn().
		Int("cursor", ticket.Cursor).
		Msg("Dropping superseded catalog result")
}

func withAll(names []string) []string {
	return append([]string{All}, names...)
}
