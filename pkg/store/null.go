package store

import (
	"context"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/placement"
)

// NullStore is a no-op store that never keeps anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct {
	scope string
}

// NewNullStore creates a null store.
func NewNullStore(scope string) Store {
	return &NullStore{scope: scope}
}

// SetPosition does nothing.
func (s *NullStore) SetPosition(ctx context.Context, id placement.ID, anchor geom.Point) error {
	return nil
}

// Positions always returns nothing.
func (s *NullStore) Positions(ctx context.Context) ([]Entry, error) {
	return nil, nil
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, id placement.ID) error {
	return nil
}

// Clear does nothing.
func (s *NullStore) Clear(ctx context.Context) (int, error) {
	return 0, nil
}

// Scope returns the scope the store was created with.
func (s *NullStore) Scope() string { return s.scope }

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
