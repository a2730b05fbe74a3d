package listing

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lukman83/storefront/internal/models"
)

// CategorySource supplies the category taxonomy.
type CategorySource interface {
	Categories(ctx context.Context) ([]models.Category, error)
}

// CategoryState is the aggregator's view for selectors.
type CategoryState struct {
	Items   []models.Category
	Loading bool
	Err     error
}

// Categories fetches the taxonomy once per session and shares it. A failed
// load is remembered as the session's category error; product listing does
// not depend on it.
type Categories struct {
	src CategorySource
	log zerolog.Logger

	mu      sync.Mutex
	started bool
	done    chan struct{}
	items   []models.Category
	err     error
}

func NewCategories(src CategorySource, log zerolog.Logger) *Categories {
	return &Categories{src: src, log: log, done: make(chan struct{})}
}

// Load fetches on the first call; every later call waits for and returns
// that same outcome. The fetch outlives the first caller's cancellation so a
// cancelled caller cannot become the session's category error.
func (c *Categories) Load(ctx context.Context) ([]models.Category, error) {
	c.mu.Lock()
	first := !c.started
	c.started = true
	c.mu.Unlock()

	if first {
		items, err := c.src.Categories(context.WithoutCancel(ctx))
		c.mu.Lock()
		c.items, c.err = items, err
		c.mu.Unlock()
		close(c.done)
		if err != nil {
			c.log.Warn().Err(err).Msg("category load failed")
		} else {
			c.log.Debug().Int("count", len(items)).Msg("categories loaded")
		}
		return items, err
	}

	select {
	case <-c.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items, c.err
}

func (c *Categories) State() CategoryState {
	c.mu.Lock()
	defer c.mu.Unlock()

	loading := c.started
	select {
	case <-c.done:
		loading = false
	default:
	}
	return CategoryState{Items: c.items, Loading: loading, Err: c.err}
}

// Lookup finds a loaded category by slug.
func (c *Categories) Lookup(slug string) (models.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range c.items {
		if cat.Slug == slug {
			return cat, true
		}
	}
	return models.Category{}, false
}
