// Package appstate holds the process-wide repositories and the bindings handlers use to
// resolve them. A State is built once at startup and only read afterwards.
package appstate

import (
	"repoapi/internal/model"
	"repoapi/internal/repository"
)

// Entity kinds, used as route prefixes and as the kind label in logs and metrics.
const (
	KindUser = "user"
	KindItem = "item"
)

// State owns exactly one repository per entity kind.
// Repositories are interface values, so copies of the pointer share the same backends.
type State struct {
	users repository.UserRepository
	items repository.ItemRepository
}

// New returns a State binding the given repositories.
func New(users repository.UserRepository, items repository.ItemRepository) *State {
	return &State{users: users, items: items}
}

// Binding resolves the repository for one entity kind from a State.
// Handlers are written against a Binding, never against a concrete backend.
type Binding[E any] func(*State) repository.Repository[E]

// Users is the Binding for model.User.
func Users(s *State) repository.Repository[model.User] { return s.users }

// Items is the Binding for model.Item.
func Items(s *State) repository.Repository[model.Item] { return s.items }

var (
	_ Binding[model.User] = Users
	_ Binding[model.Item] = Items
)
