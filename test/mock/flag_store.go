// test/mock/flag_store.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dairyops/herdwise/api/model"
)

// MockFlagStore is a mock implementation of flags.Store
type MockFlagStore struct {
	mock.Mock
}

func (m *MockFlagStore) GetFlag(ctx context.Context, key string) (*model.CapabilityFlag, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CapabilityFlag), args.Error(1)
}

func (m *MockFlagStore) UpsertFlag(ctx context.Context, flag model.CapabilityFlag, actorID string) (*model.CapabilityFlag, error) {
	args := m.Called(ctx, flag, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CapabilityFlag), args.Error(1)
}

func (m *MockFlagStore) ListFlags(ctx context.Context) ([]*model.CapabilityFlag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CapabilityFlag), args.Error(1)
}
