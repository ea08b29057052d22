package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"repoapi/internal/model"
	"repoapi/internal/repository"
	"repoapi/internal/repository/mocks"
)

func TestBind(t *testing.T) {
	ctx := context.Background()

	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	metrics, err := repository.NewMetrics(reg)
	require.NoError(t, err)

	backend := new(mocks.MockBackend[model.User])
	repo := repository.Bind[model.User](backend, repository.Boundary{
		Kind:    "user",
		Backend: "mock",
		Logger:  zap.New(core),
		Metrics: metrics,
	})

	t.Run("found", func(t *testing.T) {
		backend.On("Get", mock.Anything, uint32(1)).Return(model.User{ID: 1, Name: "foo"}, nil).Once()

		u, ok := repo.Find(ctx, 1)

		assert.True(t, ok)
		assert.Equal(t, model.User{ID: 1, Name: "foo"}, u)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Lookups().WithLabelValues("user", "mock", repository.ResultFound)))
	})

	t.Run("absent", func(t *testing.T) {
		backend.On("Get", mock.Anything, uint32(999)).Return(nil, repository.ErrNotFound).Once()

		u, ok := repo.Find(ctx, 999)

		assert.False(t, ok)
		assert.Zero(t, u)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Lookups().WithLabelValues("user", "mock", repository.ResultAbsent)))
		assert.Equal(t, 0, logs.Len(), "a clean miss is not a failure")
	})

	t.Run("backend failure collapses to absent", func(t *testing.T) {
		backend.On("Get", mock.Anything, uint32(2)).Return(nil, errors.New("connection refused")).Once()

		u, ok := repo.Find(ctx, 2)

		assert.False(t, ok)
		assert.Zero(t, u)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Lookups().WithLabelValues("user", "mock", repository.ResultError)))

		entries := logs.FilterMessage("repository lookup failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "user", fields["kind"])
		assert.Equal(t, "mock", fields["backend"])
		assert.Equal(t, uint32(2), fields["id"])
		assert.Equal(t, "connection refused", fields["error"])
	})

	backend.AssertExpectations(t)
}

func TestBind_WrappedNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := repository.BackendFunc[model.Item](func(ctx context.Context, id repository.ID) (model.Item, error) {
		return model.Item{}, errors.Join(errors.New("items"), repository.ErrNotFound)
	})

	repo := repository.Bind[model.Item](b, repository.Boundary{Kind: "item", Backend: "func", Logger: zap.New(core)})

	_, ok := repo.Find(context.Background(), 7)
	assert.False(t, ok)
	assert.Equal(t, 0, logs.Len())
}

func TestBind_NilSinks(t *testing.T) {
	b := repository.BackendFunc[model.Item](func(ctx context.Context, id repository.ID) (model.Item, error) {
		return model.Item{}, errors.New("boom")
	})

	repo := repository.Bind[model.Item](b, repository.Boundary{Kind: "item", Backend: "func"})

	assert.NotPanics(t, func() {
		_, ok := repo.Find(context.Background(), 1)
		assert.False(t, ok)
	})
}

func TestFunc(t *testing.T) {
	var repo repository.ItemRepository = repository.Func[model.Item](func(ctx context.Context, id repository.ID) (model.Item, bool) {
		return model.Item{ID: id, Name: "x"}, id == 3
	})

	it, ok := repo.Find(context.Background(), 3)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), it.ID)
}
