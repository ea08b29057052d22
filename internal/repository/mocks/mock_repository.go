package mocks

import (
	"context"

	"repoapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockRepository[E any] struct {
	mock.Mock
}

func (m *MockRepository[E]) Find(ctx context.Context, id repository.ID) (E, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero E
		return zero, args.Bool(1)
	}
	return args.Get(0).(E), args.Bool(1)
}

type MockBackend[E any] struct {
	mock.Mock
}

func (m *MockBackend[E]) Get(ctx context.Context, id repository.ID) (E, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero E
		return zero, args.Error(1)
	}
	return args.Get(0).(E), args.Error(1)
}
