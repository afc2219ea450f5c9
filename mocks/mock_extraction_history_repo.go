package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
)

// MockExtractionHistoryRepo is a mock implementation of port.ExtractionHistoryRepository.
type MockExtractionHistoryRepo struct {
	mock.Mock
}

func (m *MockExtractionHistoryRepo) Create(ctx context.Context, record *domain.ExtractionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockExtractionHistoryRepo) ListByDocument(ctx context.Context, docID string) ([]domain.ExtractionRecord, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtractionRecord), args.Error(1)
}
