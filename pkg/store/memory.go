package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/observability"
	"github.com/matzehuels/icongrid/pkg/placement"
)

// MemoryStore keeps positions in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	scope   string
	entries map[placement.ID]Entry
	closed  bool
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(scope string) *MemoryStore {
	return &MemoryStore{
		scope:   scope,
		entries: make(map[placement.ID]Entry),
		now:     time.Now,
	}
}

// SetPosition records the anchor of id.
func (s *MemoryStore) SetPosition(ctx context.Context, id placement.ID, anchor geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.entries[id] = Entry{ID: id, Anchor: anchor, UpdatedAt: s.now()}
	observability.Store().OnPositionSaved(ctx, s.scope)
	return nil
}

// Positions returns every entry ordered by id.
func (s *MemoryStore) Positions(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })
	observability.Store().OnPositionsLoaded(ctx, s.scope, len(out))
	return out, nil
}

// Delete forgets id.
func (s *MemoryStore) Delete(ctx context.Context, id placement.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.entries, id)
	return nil
}

// Clear forgets everything.
func (s *MemoryStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	n := len(s.entries)
	clear(s.entries)
	return n, nil
}

// Scope returns the store's scope.
func (s *MemoryStore) Scope() string { return s.scope }

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)
