package search

import (
	"context"
	"sync"
	"time"

	"github.com/weatherdash/weatherdash/internal/geo"
)

// Session adapts the Debouncer for callers that need an answer in hand:
// Search blocks until its query survives the quiet period and resolves,
// or until a newer query supersedes it. Only the newest caller is ever
// answered with results, matching the last-request-wins contract.
type Session struct {
	mu       sync.Mutex
	debounce *Debouncer

	// waiter belongs to the newest Search call; query is what it asked.
	waiter chan []geo.CityCandidate
	query  string
}

// NewSession creates a search session with the given quiet period.
func NewSession(delay time.Duration, resolve ResolveFunc) *Session {
	s := &Session{}
	s.debounce = NewDebouncer(delay, resolve, s.dispatch)
	return s
}

// Search submits query and waits for its results. ok is false when a
// newer query superseded this one, or ctx ended, before resolution.
func (s *Session) Search(ctx context.Context, query string) ([]geo.CityCandidate, bool) {
	ch := make(chan []geo.CityCandidate, 1)

	s.mu.Lock()
	if s.waiter != nil {
		// The previous caller is superseded; wake it empty-handed.
		close(s.waiter)
	}
	s.waiter = ch
	s.query = query
	s.mu.Unlock()

	s.debounce.Submit(ctx, query)

	select {
	case results, ok := <-ch:
		return results, ok
	case <-ctx.Done():
		s.mu.Lock()
		if s.waiter == ch {
			s.waiter = nil
		}
		s.mu.Unlock()
		return nil, false
	}
}

func (s *Session) dispatch(query string, results []geo.CityCandidate) {
	s.mu.Lock()
	ch := s.waiter
	match := ch != nil && s.query == query
	if match {
		s.waiter = nil
	}
	s.mu.Unlock()

	if match {
		ch <- results
	}
}

// Close stops the underlying debouncer and wakes any pending caller.
func (s *Session) Close() {
	s.debounce.Close()

	s.mu.Lock()
	if s.waiter != nil {
		close(s.waiter)
		s.waiter = nil
	}
	s.mu.Unlock()
}
