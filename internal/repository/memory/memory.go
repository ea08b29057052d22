// Package memory is the fixture-backed in-memory backend.
// Tables are built once and never mutated, so they are safe for concurrent reads without locks.
package memory

import (
	"context"
	"maps"

	"repoapi/internal/model"
	"repoapi/internal/repository"
)

// Table is an immutable keyed set of entities.
type Table[E any] struct {
	rows map[repository.ID]E
}

// NewTable copies rows so later changes by the caller cannot reach the table.
func NewTable[E any](rows map[repository.ID]E) *Table[E] {
	return &Table[E]{rows: maps.Clone(rows)}
}

var _ repository.Backend[model.User] = (*Table[model.User])(nil)

// Get returns a copy of the stored entity or repository.ErrNotFound.
func (t *Table[E]) Get(_ context.Context, id repository.ID) (E, error) {
	e, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, repository.ErrNotFound
	}
	return e, nil
}

// Len reports the number of rows.
func (t *Table[E]) Len() int {
	return len(t.rows)
}

// Store holds one table per entity kind.
type Store struct {
	users *Table[model.User]
	items *Table[model.Item]
}

// NewStore returns a store seeded with the demo fixtures.
func NewStore() *Store {
	return NewStoreWith(Fixtures())
}

// NewStoreWith returns a store seeded with the given records.
func NewStoreWith(f FixtureSet) *Store {
	users := make(map[repository.ID]model.User, len(f.Users))
	for _, u := range f.Users {
		users[u.ID] = u
	}
	items := make(map[repository.ID]model.Item, len(f.Items))
	for _, it := range f.Items {
		items[it.ID] = it
	}
	return &Store{users: NewTable(users), items: NewTable(items)}
}

// Users returns the user table.
func (s *Store) Users() *Table[model.User] { return s.users }

// Items returns the item table.
func (s *Store) Items() *Table[model.Item] { return s.items }
