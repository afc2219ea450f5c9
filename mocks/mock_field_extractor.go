package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// MockFieldExtractor is a mock implementation of port.FieldExtractor.
type MockFieldExtractor struct {
	mock.Mock
}

func (m *MockFieldExtractor) Classify(ctx context.Context, input port.ExtractInput) (domain.DocumentType, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.DocumentType), args.Error(1)
}

func (m *MockFieldExtractor) Extract(ctx context.Context, input port.ExtractInput, docType domain.DocumentType) (map[string]string, error) {
	args := m.Called(ctx, input, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
