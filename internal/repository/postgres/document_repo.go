package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"docverify/internal/domain"
	"docverify/internal/port"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := domain.Now()
	if doc.UploadDate.IsZero() {
		doc.UploadDate = now
	}
	doc.LastModified = now

	query := `INSERT INTO documents (
		id, document_type, file_name, content_type, file_key, file_data_url,
		page_count, upload_date, last_modified, status
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.DocumentType, doc.FileName, doc.ContentType, doc.FileKey, doc.FileDataURL,
		doc.PageCount, doc.UploadDate, doc.LastModified, doc.Status)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	q := psql.
		Select("id", "document_type", "file_name", "upload_date", "last_modified", "status").
		From("documents").
		OrderBy("upload_date DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("documentRepo.List build: %w", err)
	}

	docs := []domain.DocumentSummary{}
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, docID string, status domain.DocumentStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, last_modified = $2 WHERE id = $3",
		status, domain.Now(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) UpdateDocumentType(ctx context.Context, docID string, docType domain.DocumentType) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET document_type = $1, last_modified = $2 WHERE id = $3",
		docType, domain.Now(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateDocumentType: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound)
}

// Delete removes a document; fields, corrections and history cascade.
func (r *documentRepo) Delete(ctx context.Context, docID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
