// test/mock/audit.go
package mock

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/model"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry audit.Log) *audit.Log {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*audit.Log)
}

func (m *MockAuditService) RecordLogin(ctx context.Context, user *model.User, email string, r *http.Request, success bool) {
	m.Called(ctx, user, email, r, success)
}

func (m *MockAuditService) RecordLogout(ctx context.Context, user *model.User, r *http.Request) {
	m.Called(ctx, user, r)
}

func (m *MockAuditService) RecordError(ctx context.Context, cause error, description string, userID *uuid.UUID, r *http.Request, stack []byte) {
	m.Called(ctx, cause, description, userID, r, stack)
}

func (m *MockAuditService) GetByID(ctx context.Context, id uuid.UUID) (*audit.Log, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Log), args.Error(1)
}

func (m *MockAuditService) List(ctx context.Context, filter audit.Filter) ([]audit.Log, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]audit.Log), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditService) ListErrors(ctx context.Context, filter audit.ErrorFilter) ([]audit.Log, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]audit.Log), args.Get(1).(int64), args.Error(2)
}
