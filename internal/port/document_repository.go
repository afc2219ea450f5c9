package port

import (
	"context"

	"docverify/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID string) (*domain.Document, error)
	// List returns documents most-recent-first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.DocumentSummary, error)
	UpdateStatus(ctx context.Context, docID string, status domain.DocumentStatus) error
	UpdateDocumentType(ctx context.Context, docID string, docType domain.DocumentType) error
	Delete(ctx context.Context, docID string) error
}

// FieldRepository defines the contract for extracted field persistence.
type FieldRepository interface {
	CreateBatch(ctx context.Context, fields []domain.Field) error
	GetByID(ctx context.Context, fieldID string) (*domain.Field, error)
	ListByDocument(ctx context.Context, docID string) ([]domain.Field, error)
	// ApplyCorrection records the correction and sets the field's current value
	// in one transaction, marking the field corrected.
	ApplyCorrection(ctx context.Context, correction *domain.FieldCorrection) (*domain.Field, error)
	ListCorrections(ctx context.Context, docID string) ([]domain.FieldCorrection, error)
}

// ExtractionHistoryRepository defines the contract for extraction attempt records.
type ExtractionHistoryRepository interface {
	Create(ctx context.Context, record *domain.ExtractionRecord) error
	ListByDocument(ctx context.Context, docID string) ([]domain.ExtractionRecord, error)
}
