// Package objectstore serves entities stored as JSON documents in an S3-compatible bucket,
// one object per record under "<prefix>/<id>.json".
package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"repoapi/internal/model"
	"repoapi/internal/repository"
	"repoapi/internal/storage"
)

// maxObjectSize caps how much of an object is decoded; records are two short fields.
const maxObjectSize = 64 << 10

// Table reads one entity kind from object storage.
type Table[E any] struct {
	store  storage.Storage
	prefix string
}

// NewTable returns a backend reading objects under prefix.
func NewTable[E any](store storage.Storage, prefix string) *Table[E] {
	return &Table[E]{store: store, prefix: prefix}
}

var _ repository.Backend[model.Item] = (*Table[model.Item])(nil)

// Key returns the object key holding id.
func (t *Table[E]) Key(id repository.ID) string {
	return fmt.Sprintf("%s/%d.json", t.prefix, id)
}

// Get downloads and decodes the object for id.
func (t *Table[E]) Get(ctx context.Context, id repository.ID) (E, error) {
	var e E
	key := t.Key(id)

	data, _, err := t.store.Fetch(ctx, key, maxObjectSize)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return e, repository.ErrNotFound
		}
		return e, fmt.Errorf("fetch object %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &e); err != nil {
		var zero E
		return zero, fmt.Errorf("decode object %s: %w", key, err)
	}
	return e, nil
}

// Users returns the backend for objects under "users/".
func Users(store storage.Storage) *Table[model.User] {
	return NewTable[model.User](store, "users")
}

// Items returns the backend for objects under "items/".
func Items(store storage.Storage) *Table[model.Item] {
	return NewTable[model.Item](store, "items")
}
