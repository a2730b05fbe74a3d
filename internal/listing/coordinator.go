package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/query"
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// QueryError is a listing request that failed for one generation.
type QueryError struct {
	Generation uint64
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("listing query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Snapshot is what the coordinator currently shows.
type Snapshot struct {
	Status     Status
	Generation uint64
	State      query.State
	Items      []models.Product
	Total      int
	TotalPages int
	Err        error
}

// Coordinator owns the filter state and the listing it produces. Every state
// change opens a new generation; only the newest generation may publish, so a
// slow earlier answer never overwrites a later one.
type Coordinator struct {
	fetcher       Fetcher
	maxConcurrent int
	log           zerolog.Logger
	listeners     []func(Snapshot)

	mu      sync.Mutex
	state   query.State
	gen     uint64
	snap    Snapshot
	seq     uint64        // bumped on every publish
	settled chan struct{} // closed and replaced on every publish

	notifyMu  sync.Mutex
	delivered uint64 // seq of the last snapshot handed to listeners
}

type Option func(*Coordinator)

// WithMaxConcurrent bounds the category fan-out.
func WithMaxConcurrent(n int) Option {
	return func(c *Coordinator) { c.maxConcurrent = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// OnChange registers fn to receive published snapshots in publish order. A
// snapshot superseded before it could be delivered is skipped, so fn never
// sees an older snapshot after a newer one. fn runs synchronously and must
// not call Update or Refresh.
func OnChange(fn func(Snapshot)) Option {
	return func(c *Coordinator) { c.listeners = append(c.listeners, fn) }
}

func New(f Fetcher, perPage int, opts ...Option) *Coordinator {
	state := query.NewState(perPage)
	c := &Coordinator{
		fetcher:       f,
		maxConcurrent: 5,
		log:           zerolog.Nop(),
		state:         state,
		snap:          Snapshot{Status: Idle, State: state, TotalPages: 1},
		settled:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current filter state.
func (c *Coordinator) State() query.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Refresh reloads the current state under a new generation.
func (c *Coordinator) Refresh(ctx context.Context) uint64 {
	return c.start(ctx, nil)
}

// Update applies fn to a copy of the state. When the state changed, a new
// generation starts loading and its number is returned; otherwise the current
// generation is returned and nothing is fetched.
func (c *Coordinator) Update(ctx context.Context, fn func(*query.State)) uint64 {
	return c.start(ctx, fn)
}

func (c *Coordinator) start(ctx context.Context, fn func(*query.State)) uint64 {
	c.mu.Lock()
	next := c.state
	if fn != nil {
		fn(&next)
		if next.Equal(c.state) {
			gen := c.gen
			c.mu.Unlock()
			return gen
		}
	}
	c.state = next
	c.gen++
	gen := c.gen
	c.snap = Snapshot{Status: Loading, Generation: gen, State: next, TotalPages: 1}
	pub := c.publishLocked()
	c.mu.Unlock()

	c.log.Debug().Uint64("generation", gen).Msg("listing generation started")
	c.notify(pub)

	go c.run(ctx, gen, next)
	return gen
}

func (c *Coordinator) run(ctx context.Context, gen uint64, st query.State) {
	res, err := Execute(ctx, c.fetcher, st, c.maxConcurrent)

	c.mu.Lock()
	if gen != c.gen {
		latest := c.gen
		c.mu.Unlock()
		c.log.Debug().Uint64("generation", gen).Uint64("latest", latest).Msg("discarding stale listing result")
		return
	}
	if err != nil {
		c.snap = Snapshot{
			Status:     Failed,
			Generation: gen,
			State:      st,
			TotalPages: 1,
			Err:        &QueryError{Generation: gen, Err: err},
		}
	} else {
		c.snap = Snapshot{
			Status:     Loaded,
			Generation: gen,
			State:      st,
			Items:      res.Items,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		}
	}
	pub := c.publishLocked()
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Uint64("generation", gen).Msg("listing query failed")
	}
	c.notify(pub)
}

// Await blocks until generation gen, or a newer one, has settled and returns
// that snapshot. A failed generation returns its QueryError.
func (c *Coordinator) Await(ctx context.Context, gen uint64) (Snapshot, error) {
	for {
		c.mu.Lock()
		snap, ch := c.snap, c.settled
		c.mu.Unlock()

		if snap.Generation >= gen && snap.Status != Loading {
			return snap, snap.Err
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// ReplaceItem swaps in an edited product if it is currently shown.
func (c *Coordinator) ReplaceItem(p models.Product) bool {
	c.mu.Lock()
	idx := indexOf(c.snap.Items, p.ID)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	items := make([]models.Product, len(c.snap.Items))
	copy(items, c.snap.Items)
	items[idx] = p
	c.snap.Items = items
	pub := c.publishLocked()
	c.mu.Unlock()

	c.notify(pub)
	return true
}

// RemoveItem drops a deleted product from the shown items.
func (c *Coordinator) RemoveItem(id int) bool {
	c.mu.Lock()
	idx := indexOf(c.snap.Items, id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	items := make([]models.Product, 0, len(c.snap.Items)-1)
	items = append(items, c.snap.Items[:idx]...)
	items = append(items, c.snap.Items[idx+1:]...)
	c.snap.Items = items
	if c.snap.Total > 0 {
		c.snap.Total--
	}
	c.snap.TotalPages = query.TotalPages(c.snap.Total, c.snap.State.PerPage())
	pub := c.publishLocked()
	c.mu.Unlock()

	c.notify(pub)
	return true
}

// published is one snapshot waiting to be handed to listeners.
type published struct {
	seq  uint64
	snap Snapshot
}

// publishLocked wakes Await callers. c.mu must be held.
func (c *Coordinator) publishLocked() published {
	close(c.settled)
	c.settled = make(chan struct{})
	c.seq++
	return published{seq: c.seq, snap: c.snap}
}

// notify delivers p unless a later publish already reached the listeners.
func (c *Coordinator) notify(p published) {
	if len(c.listeners) == 0 {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if p.seq <= c.delivered {
		return
	}
	c.delivered = p.seq
	for _, fn := range c.listeners {
		fn(p.snap)
	}
}

func indexOf(items []models.Product, id int) int {
	for i, p := range items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
