package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, docID string) (*domain.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) List(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSummary), args.Error(1)
}

func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, docID string, status domain.DocumentStatus) error {
	args := m.Called(ctx, docID, status)
	return args.Error(0)
}

func (m *MockDocumentRepo) UpdateDocumentType(ctx context.Context, docID string, docType domain.DocumentType) error {
	args := m.Called(ctx, docID, docType)
	return args.Error(0)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
