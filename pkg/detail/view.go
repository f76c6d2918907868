package detail

import (
	"context"
	"errors"
	"sync"

	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned by Navigate when another navigation happened
// before the load completed. The result was discarded.
var ErrSuperseded = errors.New("detail load superseded")

// Status is the presentation status of the detail route.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// State is what the presentation layer renders.
type State struct {
	ID     int
	Status Status
	Model  *ViewModel
	Err    error
}

// Loader builds a view model. *Aggregator satisfies it.
type Loader interface {
	Load(ctx context.Context, id int) (*ViewModel, error)
}

// View holds the detail state of the current route. Each Navigate cancels
// the previous load; a load that completes after being superseded is never
// applied.
type View struct {
	loader Loader
	logger zerolog.Logger

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	state  State
}

// NewView creates an idle view.
func NewView(loader Loader) *View {
	return &View{
		loader: loader,
		logger: log.With().Str("component", "detail").Logger(),
		state:  State{Status: StatusIdle},
	}
}

// Navigate loads entry id and applies the result if it is still current.
// The returned error is the load error, or ErrSuperseded.
func (v *View) Navigate(ctx context.Context, id int) (State, error) {
	v.mu.Lock()
	v.token++
	token := v.token
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state = State{ID: id, Status: StatusLoading}
	v.mu.Unlock()

	model, err := v.loader.Load(loadCtx, id)
	cancel()

	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.token {
		pagination.StaleCompletions.WithLabelValues("detail").Inc()
		v.logger.Warn().
			Int("id", id).
			Int("current_id", v.state.ID).
			Msg("Dropping superseded detail result")
		return State{}, ErrSuperseded
	}

	switch {
	case err == nil:
		v.state = State{ID: id, Status: StatusReady, Model: model}
	case errors.Is(err, ErrNotFound):
		v.state = State{ID: id, Status: StatusNotFound, Err: err}
	default:
		v.state = State{ID: id, Status: StatusFailed, Err: err}
	}
	return v.state, err
}

// State returns the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Close cancels the current load.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
