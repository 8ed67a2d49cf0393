// Package search provides the debounced search session that sits between
// a search box and the location resolver.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/weatherdash/weatherdash/internal/geo"
)

// ResolveFunc resolves a query into candidates; it must be fail-soft.
type ResolveFunc func(ctx context.Context, query string) []geo.CityCandidate

// DeliverFunc receives the results for a query that is still current.
type DeliverFunc func(query string, results []geo.CityCandidate)

// Debouncer coalesces rapid query changes: each Submit restarts a fixed
// quiet period, and only the query that survives it gets resolved. A
// resolution whose triggering query has been superseded by the time its
// results arrive is discarded (last-request-wins), so a slow early
// response can never overwrite a newer one. The in-flight HTTP call
// itself is not cancelled.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	resolve ResolveFunc
	deliver DeliverFunc

	current string
	timer   *time.Timer
	closed  bool
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration, resolve ResolveFunc, deliver DeliverFunc) *Debouncer {
	return &Debouncer{
		delay:   delay,
		resolve: resolve,
		deliver: deliver,
	}
}

// Submit registers a new query, restarting the quiet period.
func (d *Debouncer) Submit(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.current = query
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(ctx, query)
	})
}

func (d *Debouncer) fire(ctx context.Context, query string) {
	d.mu.Lock()
	stale := d.closed || d.current != query
	d.mu.Unlock()
	if stale {
		return
	}

	results := d.resolve(ctx, query)

	// The query may have changed while the resolution was in flight.
	d.mu.Lock()
	stale = d.closed || d.current != query
	d.mu.Unlock()
	if stale {
		return
	}

	d.deliver(query, results)
}

// Close stops any pending resolution; subsequent Submits are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
