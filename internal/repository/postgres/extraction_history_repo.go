package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docverify/internal/domain"
	"docverify/internal/port"
)

type extractionHistoryRepo struct {
	db *sqlx.DB
}

// NewExtractionHistoryRepo creates a new PostgreSQL-backed ExtractionHistoryRepository.
func NewExtractionHistoryRepo(db *sqlx.DB) port.ExtractionHistoryRepository {
	return &extractionHistoryRepo{db: db}
}

func (r *extractionHistoryRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ExtractionDate.IsZero() {
		rec.ExtractionDate = domain.Now()
	}
	if len(rec.ExtractedData) == 0 {
		rec.ExtractedData = json.RawMessage("{}")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extraction_history (id, document_id, extraction_date, status, error_message, extracted_data)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.DocumentID, rec.ExtractionDate, rec.Status, rec.ErrorMessage, []byte(rec.ExtractedData))
	if err != nil {
		return fmt.Errorf("extractionHistoryRepo.Create: %w", err)
	}
	return nil
}

func (r *extractionHistoryRepo) ListByDocument(ctx context.Context, docID string) ([]domain.ExtractionRecord, error) {
	records := []domain.ExtractionRecord{}
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM extraction_history WHERE document_id = $1 ORDER BY extraction_date DESC", docID)
	if err != nil {
		return nil, fmt.Errorf("extractionHistoryRepo.ListByDocument: %w", err)
	}
	return records, nil
}
