// Package prefetcher starts remote category listings in the background so a
// caller reading them one by one does not wait for each round trip in turn.
package prefetcher

import (
	"context"
	"sync"
	"time"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

type Source interface {
	Available(ctx context.Context, category resource.Category) ([]resource.Listing, error)
}

type task struct {
	done     chan struct{}
	listings []resource.Listing
	err      error
}

// Prefetcher serves Available from listings started earlier. Categories that
// were never started are fetched inline.
type Prefetcher struct {
	source  Source
	timeout time.Duration

	mu    sync.Mutex
	tasks map[resource.Category]*task
}

func New(source Source, timeout time.Duration) *Prefetcher {
	return &Prefetcher{
		source:  source,
		timeout: timeout,
		tasks:   make(map[resource.Category]*task),
	}
}

// Start begins fetching one category. It reports false when the category was
// already started.
func (p *Prefetcher) Start(ctx context.Context, category resource.Category) bool {
	p.mu.Lock()
	if _, ok := p.tasks[category]; ok {
		p.mu.Unlock()
		return false
	}
	t := &task{done: make(chan struct{})}
	p.tasks[category] = t
	p.mu.Unlock()

	go func() {
		defer close(t.done)
		fetchCtx := ctx
		cancel := func() {}
		if p.timeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, p.timeout)
		}
		defer cancel()
		t.listings, t.err = p.source.Available(fetchCtx, category)
	}()
	return true
}

func (p *Prefetcher) StartAll(ctx context.Context, categories []resource.Category) {
	for _, category := range categories {
		p.Start(ctx, category)
	}
}

// Available waits for a started category, or fetches it now.
func (p *Prefetcher) Available(ctx context.Context, category resource.Category) ([]resource.Listing, error) {
	p.mu.Lock()
	t := p.tasks[category]
	p.mu.Unlock()
	if t == nil {
		return p.source.Available(ctx, category)
	}
	select {
	case <-t.done:
		return t.listings, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
