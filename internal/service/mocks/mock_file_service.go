package mocks

import (
	"context"
	"io"

	"fingerprintapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Store(ctx context.Context, r io.Reader, originalFilename string, size int64) (string, error) {
	args := m.Called(ctx, r, originalFilename, size)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) StoreBatch(ctx context.Context, uploads []service.Upload) ([]string, error) {
	args := m.Called(ctx, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFileService) StoreBase64(ctx context.Context, base64Data, fileName, imageFormat string) (string, error) {
	args := m.Called(ctx, base64Data, fileName, imageFormat)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) Retrieve(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
