// test/mock/audit.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dairyops/herdwise/api/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogChange(ctx context.Context, change audit.FlagChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockAuditService) QueryChanges(ctx context.Context, query audit.ChangeQuery) ([]audit.FlagChange, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.FlagChange), args.Error(1)
}
