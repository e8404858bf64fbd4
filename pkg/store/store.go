// Package store persists item positions between runs.
//
// A Store is a [placement.PositionSink], so it can be handed straight to a
// [placement.Engine]; every anchor the engine settles on is saved under the
// store's scope. Scopes keep unrelated canvases (say, two desktops) apart in
// the same database.
//
// Three implementations are provided:
//   - [SQLiteStore]: file-backed, for the CLI
//   - [MemoryStore]: in-process, for tests and the interactive view
//   - [NullStore]: discards everything, for when persistence is disabled
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/placement"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Entry is one saved position.
type Entry struct {
	ID        placement.ID
	Anchor    geom.Point
	UpdatedAt time.Time
}

// Store saves item anchors under a scope.
type Store interface {
	// SetPosition records the anchor of id, replacing any earlier value.
	SetPosition(ctx context.Context, id placement.ID, anchor geom.Point) error

	// Positions returns every saved entry in the scope, ordered by id.
	Positions(ctx context.Context) ([]Entry, error)

	// Delete forgets the position of id. Unknown ids are ignored.
	Delete(ctx context.Context, id placement.ID) error

	// Clear forgets every position in the scope and reports how many were
	// removed.
	Clear(ctx context.Context) (int, error)

	// Scope returns the namespace this store reads and writes.
	Scope() string

	// Close releases resources held by the store.
	Close() error
}

// Lookup converts entries into a map keyed by id.
func Lookup(entries []Entry) map[placement.ID]geom.Point {
	out := make(map[placement.ID]geom.Point, len(entries))
	for _, e := range entries {
		out[e.ID] = e.Anchor
	}
	return out
}

var _ placement.PositionSink = Store(nil)
