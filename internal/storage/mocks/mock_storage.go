package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repoapi/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Fetch(ctx context.Context, key string, limit int64) ([]byte, storage.ObjectInfo, error) {
	args := m.Called(ctx, key, limit)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockStorage) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
