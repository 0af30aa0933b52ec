package mocks

import (
	"context"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *model.FingerPrintAudit) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, pq repository.PageQuery, f repository.AuditFilter) (*repository.PageResult[model.FingerPrintAudit], error) {
	args := m.Called(ctx, pq, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.FingerPrintAudit]), args.Error(1)
}
