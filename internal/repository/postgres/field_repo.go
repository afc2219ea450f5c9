package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docverify/internal/domain"
	"docverify/internal/port"
)

type fieldRepo struct {
	db *sqlx.DB
}

// NewFieldRepo creates a new PostgreSQL-backed FieldRepository.
func NewFieldRepo(db *sqlx.DB) port.FieldRepository {
	return &fieldRepo{db: db}
}

func (r *fieldRepo) CreateBatch(ctx context.Context, fields []domain.Field) error {
	if len(fields) == 0 {
		return nil
	}
	now := domain.Now()
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = uuid.New().String()
		}
		if fields[i].ExtractionDate.IsZero() {
			fields[i].ExtractionDate = now
		}
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO extracted_fields (
			id, document_id, field_name, original_value, current_value, is_corrected, extraction_date
		) VALUES (
			:id, :document_id, :field_name, :original_value, :current_value, :is_corrected, :extraction_date
		)`, fields)
	if err != nil {
		return fmt.Errorf("fieldRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *fieldRepo) GetByID(ctx context.Context, fieldID string) (*domain.Field, error) {
	var f domain.Field
	err := r.db.GetContext(ctx, &f, "SELECT * FROM extracted_fields WHERE id = $1", fieldID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFieldNotFound
		}
		return nil, fmt.Errorf("fieldRepo.GetByID: %w", err)
	}
	return &f, nil
}

func (r *fieldRepo) ListByDocument(ctx context.Context, docID string) ([]domain.Field, error) {
	fields := []domain.Field{}
	err := r.db.SelectContext(ctx, &fields,
		"SELECT * FROM extracted_fields WHERE document_id = $1 ORDER BY field_name", docID)
	if err != nil {
		return nil, fmt.Errorf("fieldRepo.ListByDocument: %w", err)
	}
	return fields, nil
}

// ApplyCorrection stores the correction, updates the field and marks the
// owning document verified, all in one transaction. OldValue is filled
// from the row as it was before the update.
func (r *fieldRepo) ApplyCorrection(ctx context.Context, c *domain.FieldCorrection) (*domain.Field, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fieldRepo.ApplyCorrection begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var f domain.Field
	err = tx.GetContext(ctx, &f, "SELECT * FROM extracted_fields WHERE id = $1 FOR UPDATE", c.FieldID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFieldNotFound
		}
		return nil, fmt.Errorf("fieldRepo.ApplyCorrection load: %w", err)
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CorrectionDate.IsZero() {
		c.CorrectionDate = domain.Now()
	}
	if c.CorrectedBy == "" {
		c.CorrectedBy = "user"
	}
	c.DocumentID = f.DocumentID
	c.FieldName = f.FieldName
	c.OldValue = f.CurrentValue

	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO field_corrections (
			id, document_id, field_id, field_name, old_value, new_value, correction_date, corrected_by
		) VALUES (
			:id, :document_id, :field_id, :field_name, :old_value, :new_value, :correction_date, :corrected_by
		)`, c); err != nil {
		return nil, fmt.Errorf("fieldRepo.ApplyCorrection insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE extracted_fields SET current_value = $1, is_corrected = TRUE WHERE id = $2",
		c.NewValue, f.ID); err != nil {
		return nil, fmt.Errorf("fieldRepo.ApplyCorrection update field: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET status = $1, last_modified = $2 WHERE id = $3",
		domain.DocumentStatusVerified, c.CorrectionDate, f.DocumentID); err != nil {
		return nil, fmt.Errorf("fieldRepo.ApplyCorrection update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("fieldRepo.ApplyCorrection commit: %w", err)
	}

	f.CurrentValue = c.NewValue
	f.IsCorrected = true
	return &f, nil
}

func (r *fieldRepo) ListCorrections(ctx context.Context, docID string) ([]domain.FieldCorrection, error) {
	corrections := []domain.FieldCorrection{}
	err := r.db.SelectContext(ctx, &corrections,
		"SELECT * FROM field_corrections WHERE document_id = $1 ORDER BY correction_date DESC", docID)
	if err != nil {
		return nil, fmt.Errorf("fieldRepo.ListCorrections: %w", err)
	}
	return corrections, nil
}
