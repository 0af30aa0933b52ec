package mocks

import (
	"context"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, person *model.Person, paths []string) (int, error) {
	args := m.Called(ctx, person, paths)
	return args.Int(0), args.Error(1)
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id int) (*model.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByFingerprintPath(ctx context.Context, path string) (*model.Person, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[repository.PersonSummary], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[repository.PersonSummary]), args.Error(1)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
