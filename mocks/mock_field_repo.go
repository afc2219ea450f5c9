package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
)

// MockFieldRepo is a mock implementation of port.FieldRepository.
type MockFieldRepo struct {
	mock.Mock
}

func (m *MockFieldRepo) CreateBatch(ctx context.Context, fields []domain.Field) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *MockFieldRepo) GetByID(ctx context.Context, fieldID string) (*domain.Field, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Field), args.Error(1)
}

func (m *MockFieldRepo) ListByDocument(ctx context.Context, docID string) ([]domain.Field, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Field), args.Error(1)
}

func (m *MockFieldRepo) ApplyCorrection(ctx context.Context, correction *domain.FieldCorrection) (*domain.Field, error) {
	args := m.Called(ctx, correction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Field), args.Error(1)
}

func (m *MockFieldRepo) ListCorrections(ctx context.Context, docID string) ([]domain.FieldCorrection, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FieldCorrection), args.Error(1)
}
