package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// MockDocumentAPI is a mock implementation of port.DocumentAPI.
type MockDocumentAPI struct {
	mock.Mock
}

func (m *MockDocumentAPI) ListDocuments(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSummary), args.Error(1)
}

func (m *MockDocumentAPI) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentAPI) Extract(ctx context.Context, file port.UploadFile) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

func (m *MockDocumentAPI) UpdateField(ctx context.Context, fieldID, value string) (*domain.FieldUpdate, error) {
	args := m.Called(ctx, fieldID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FieldUpdate), args.Error(1)
}

func (m *MockDocumentAPI) DeleteDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of port.Confirmer.
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// RecordingNotifier collects notifications for assertions.
type RecordingNotifier struct {
	mu            sync.Mutex
	Notifications []domain.Notification
}

func (r *RecordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, n)
}

// Levels returns the levels of the recorded notifications in order.
func (r *RecordingNotifier) Levels() []domain.NotificationLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	levels := make([]domain.NotificationLevel, 0, len(r.Notifications))
	for _, n := range r.Notifications {
		levels = append(levels, n.Level)
	}
	return levels
}
