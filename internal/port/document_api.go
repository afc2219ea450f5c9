package port

import (
	"context"

	"docverify/internal/domain"
)

// UploadFile is a source file held by the client before extraction.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentAPI is the client's view of the remote document service.
type DocumentAPI interface {
	// ListDocuments returns summaries most-recent-first. limit <= 0 lets the service decide.
	ListDocuments(ctx context.Context, limit int) ([]domain.DocumentSummary, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	Extract(ctx context.Context, file UploadFile) (*domain.ExtractionResult, error)
	// UpdateField returns only the keys the service sent back.
	UpdateField(ctx context.Context, fieldID, value string) (*domain.FieldUpdate, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier surfaces operator-visible notifications.
type Notifier interface {
	Notify(n domain.Notification)
}
