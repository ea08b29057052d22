package repository

// Package repository contains the lookup abstraction shared by every storage backend.
// Backends live in subpackages (memory, sqldb, objectstore) and are bound through Bind.

import (
	"context"
	"errors"

	"repoapi/internal/model"
)

// ID is the numeric key of every entity kind.
type ID = uint32

// ErrNotFound is returned by a Backend when the id is well-formed but has no record.
var ErrNotFound = errors.New("record not found")

// Repository is the capability handlers depend on: given an id, produce the entity or report absence.
// Backend failures never surface here; they are collapsed to absence by Bind.
type Repository[E any] interface {
	Find(ctx context.Context, id ID) (E, bool)
}

// Backend is implemented by concrete stores. It distinguishes a clean miss (ErrNotFound)
// from a failure so the boundary can report them differently.
type Backend[E any] interface {
	Get(ctx context.Context, id ID) (E, error)
}

// UserRepository and ItemRepository name the two bound capabilities.
type (
	UserRepository = Repository[model.User]
	ItemRepository = Repository[model.Item]
)

// Func adapts a plain function to Repository.
type Func[E any] func(ctx context.Context, id ID) (E, bool)

// Find calls f.
func (f Func[E]) Find(ctx context.Context, id ID) (E, bool) {
	return f(ctx, id)
}

// BackendFunc adapts a plain function to Backend.
type BackendFunc[E any] func(ctx context.Context, id ID) (E, error)

// Get calls f.
func (f BackendFunc[E]) Get(ctx context.Context, id ID) (E, error) {
	return f(ctx, id)
}
