package port

import (
	"context"

	"docverify/internal/domain"
)

// ExtractInput carries the data needed to classify and extract a document.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// FieldExtractor abstracts the vision model that recognizes documents.
// It is an external collaborator: only its request/response contract matters here.
type FieldExtractor interface {
	Classify(ctx context.Context, input ExtractInput) (domain.DocumentType, error)
	Extract(ctx context.Context, input ExtractInput, docType domain.DocumentType) (map[string]string, error)
}
