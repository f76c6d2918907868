package pagination

import (
	"errors"
	"sync"
)

var (
	// ErrPageInFlight is returned by Begin while a page request is outstanding.
	ErrPageInFlight = errors.New("page request already in flight")

	// ErrExhausted is returned by Begin once the list has no more pages.
	ErrExhausted = errors.New("no more pages")
)

// Ticket identifies one page request.
type Ticket struct {
	Cursor int
	Epoch  uint64
}

// PagerState is a snapshot of the paging protocol.
type PagerState struct {
	Cursor    int
	PageSize  int
	HasMore   bool
	InFlight  bool
	Suspended bool
}

// Pager enforces the incremental loading protocol: at most one outstanding
// page, cursor advanced by exactly PageSize per successful page, and no
// requests once the list is exhausted or paging is suspended.
type Pager struct {
	mu        sync.Mutex
	pageSize  int
	cursor    int
	hasMore   bool
	inFlight  bool
	suspended bool
	epoch     uint64
}

// NewPager creates a pager positioned at cursor zero. pageSize must be positive.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		panic("pagination: page size must be positive")
	}
	return &Pager{pageSize: pageSize, hasMore: true}
}

// Begin reserves the next page request.
func (p *Pager) Begin() (Ticket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inFlight {
		return Ticket{}, ErrPageInFlight
	}
	if !p.hasMore {
		return Ticket{}, ErrExhausted
	}
	p.inFlight = true
	return Ticket{Cursor: p.cursor, Epoch: p.epoch}, nil
}

// Complete records a successful page. It returns false, changing nothing,
// when t was issued before the last Reset or Suspend.
func (p *Pager) Complete(t Ticket, hasNext bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t.Epoch != p.epoch {
		return false
	}
	p.inFlight = false
	if p.suspended {
		p.hasMore = false
		return true
	}
	p.cursor += p.pageSize
	p.hasMore = hasNext
	return true
}

// Fail releases the in-flight flag after a failed page. The cursor stays put
// so the same page can be requested again. Stale tickets return false.
func (p *Pager) Fail(t Ticket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t.Epoch != p.epoch {
		return false
	}
	p.inFlight = false
	return true
}

// Reset restarts paging from cursor zero and invalidates outstanding tickets.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.epoch++
	p.cursor = 0
	p.hasMore = true
	p.inFlight = false
	p.suspended = false
}

// Suspend stops normal paging for a one-shot complete fetch (a generation
// filter) and returns the ticket that fetch completes with. Outstanding
// tickets are invalidated.
func (p *Pager) Suspend() Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.epoch++
	p.cursor = 0
	p.hasMore = false
	p.inFlight = true
	p.suspended = true
	return Ticket{Cursor: 0, Epoch: p.epoch}
}

// Current reports whether t belongs to the current epoch.
func (p *Pager) Current(t Ticket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return t.Epoch == p.epoch
}

// State returns a snapshot.
func (p *Pager) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PagerState{
		Cursor:    p.cursor,
		PageSize:  p.pageSize,
		HasMore:   p.hasMore,
		InFlight:  p.inFlight,
		Suspended: p.suspended,
	}
}
