package mocks

import (
	"context"

	"fingerprintapi/internal/repository"
	"fingerprintapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockPersonService struct {
	mock.Mock
}

func (m *MockPersonService) Add(ctx context.Context, req service.AddPersonRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockPersonService) Verify(ctx context.Context, fingerprintPath string) (*service.PersonResult, error) {
	args := m.Called(ctx, fingerprintPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PersonResult), args.Error(1)
}

func (m *MockPersonService) List(ctx context.Context, page, pageSize int) (*service.PersonListResult, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PersonListResult), args.Error(1)
}

func (m *MockPersonService) Get(ctx context.Context, id int) (*service.PersonResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PersonResult), args.Error(1)
}

func (m *MockPersonService) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPersonService) AuditLogs(ctx context.Context, page, pageSize int, f repository.AuditFilter) (*service.AuditListResult, error) {
	args := m.Called(ctx, page, pageSize, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditListResult), args.Error(1)
}
