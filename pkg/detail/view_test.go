package detail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/catalog"
)

// fakeLoader answers immediately unless a gate is registered for the id, in
// which case it waits for the gate and ignores cancellation.
type fakeLoader struct {
	started map[int]chan struct{}
	gates   map[int]chan struct{}
	errs    map[int]error
}

func (f *fakeLoader) Load(ctx context.Context, id int) (*ViewModel, error) {
	if started, ok := f.started[id]; ok {
		close(started)
	}
	if gate, ok := f.gates[id]; ok {
		<-gate
	}
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return &ViewModel{Entry: catalog.Entry{ID: id, Name: fmt.Sprintf("entry-%d", id)}}, nil
}

func TestView_SupersededLoadNeverApplied(t *testing.T) {
	loader := &fakeLoader{
		started: map[int]chan struct{}{5: make(chan struct{})},
		gates:   map[int]chan struct{}{5: make(chan struct{})},
	}
	v := NewView(loader)
	ctx := context.Background()

	type result struct {
		state State
		err   error
	}
	done := make(chan result, 1)
	go func() {
		s, err := v.Navigate(ctx, 5)
		done <- result{s, err}
	}()

	select {
	case <-loader.started[5]:
	case <-time.After(2 * time.Second):
		t.Fatal("load for 5 never started")
	}
	if v.State().Status != StatusLoading || v.State().ID != 5 {
		t.Errorf("While loading: %+v", v.State())
	}

	state, err := v.Navigate(ctx, 6)
	if err != nil {
		t.Fatalf("Navigate(6) failed: %v", err)
	}
	if state.Status != StatusReady || state.Model.Entry.ID != 6 {
		t.Fatalf("State for 6 = %+v", state)
	}

	close(loader.gates[5])
	select {
	case r := <-done:
		if !errors.Is(r.err, ErrSuperseded) {
			t.Errorf("Late result for 5 returned %v, want ErrSuperseded", r.err)
		}
		if r.state.Model != nil {
			t.Error("Superseded navigation returned a model")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("load for 5 never completed")
	}

	final := v.State()
	if final.ID != 6 || final.Model == nil || final.Model.Entry.ID != 6 {
		t.Errorf("View now shows %+v, want entry 6", final)
	}
}

func TestView_CancelsPreviousLoad(t *testing.T) {
	loaded := make(chan struct{})
	cancelled := make(chan struct{})
	v := NewView(loaderFunc(func(ctx context.Context, id int) (*ViewModel, error) {
		if id == 1 {
			close(loaded)
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return &ViewModel{Entry: catalog.Entry{ID: id}}, nil
	}))

	go v.Navigate(context.Background(), 1)
	<-loaded

	if _, err := v.Navigate(context.Background(), 2); err != nil {
		t.Fatalf("Navigate(2) failed: %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("previous load was not cancelled")
	}
}

func TestView_Statuses(t *testing.T) {
	boom := errors.New("boom")
	loader := &fakeLoader{errs: map[int]error{
		404: fmt.Errorf("entry 404: %w", ErrNotFound),
		500: boom,
	}}
	v := NewView(loader)

	if v.State().Status != StatusIdle {
		t.Errorf("Initial status = %s", v.State().Status)
	}

	tests := []struct {
		id   int
		want Status
	}{
		{404, StatusNotFound},
		{500, StatusFailed},
		{7, StatusReady},
	}
	for _, tt := range tests {
		state, _ := v.Navigate(context.Background(), tt.id)
		if state.Status != tt.want || v.State().Status != tt.want {
			t.Errorf("Navigate(%d) status = %s, want %s", tt.id, state.Status, tt.want)
		}
	}
}

type loaderFunc func(ctx context.Context, id int) (*ViewModel, error)

func (f loaderFunc) Load(ctx context.Context, id int) (*ViewModel, error) {
	return f(ctx, id)
}
