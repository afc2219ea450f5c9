package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/extractor"
	"docverify/internal/port"
)

// ExtractDocumentInput is the DTO for an extraction request.
type ExtractDocumentInput struct {
	FileName string
	Data     []byte
}

// DocumentService defines the document extraction and correction contract.
type DocumentService interface {
	Extract(ctx context.Context, input *ExtractDocumentInput) (*domain.ExtractionResult, error)
	Classify(ctx context.Context, input *ExtractDocumentInput) (*domain.ClassificationResult, error)
	List(ctx context.Context, limit int) ([]domain.DocumentSummary, error)
	Get(ctx context.Context, docID string) (*domain.Document, error)
	UpdateField(ctx context.Context, fieldID, value string) (*domain.Field, error)
	Delete(ctx context.Context, docID string) error
	ListCorrections(ctx context.Context, docID string) ([]domain.FieldCorrection, error)
	ListExtractions(ctx context.Context, docID string) ([]domain.ExtractionRecord, error)
	DocumentTypes() map[domain.DocumentType][]string
}

type documentService struct {
	docRepo     port.DocumentRepository
	fieldRepo   port.FieldRepository
	historyRepo port.ExtractionHistoryRepository
	extractor   port.FieldExtractor
	storage     port.ObjectStorage
	schema      extractor.Schema
	bucket      string
	maxBytes    int64
}

// NewDocumentService creates a new DocumentService implementation.
// A nil storage keeps the upload inline as a data URL instead of in S3.
func NewDocumentService(
	docRepo port.DocumentRepository,
	fieldRepo port.FieldRepository,
	historyRepo port.ExtractionHistoryRepository,
	fieldExtractor port.FieldExtractor,
	storage port.ObjectStorage,
	schema extractor.Schema,
	uploadCfg *config.UploadConfig,
	s3Cfg *config.S3Config,
) DocumentService {
	return &documentService{
		docRepo:     docRepo,
		fieldRepo:   fieldRepo,
		historyRepo: historyRepo,
		extractor:   fieldExtractor,
		storage:     storage,
		schema:      schema,
		bucket:      s3Cfg.Bucket,
		maxBytes:    uploadCfg.MaxBytes(),
	}
}

// Extract validates an upload, records it as a pending document, then
// stores the original and runs classification plus field extraction
// concurrently. The created document id is always reported.
func (s *documentService) Extract(ctx context.Context, input *ExtractDocumentInput) (*domain.ExtractionResult, error) {
	upload, err := inspectUpload(input.FileName, input.Data, s.maxBytes)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:           uuid.New().String(),
		DocumentType: domain.DocumentTypeUnknown,
		FileName:     input.FileName,
		ContentType:  upload.ContentType,
		PageCount:    upload.PageCount,
		Status:       domain.DocumentStatusPending,
	}
	if s.storage != nil {
		doc.FileKey = objectKey(doc.ID, input.FileName)
	} else {
		doc.FileDataURL = dataURL(upload.ContentType, input.Data)
	}

	log.Info().Str("document_id", doc.ID).Str("content_type", upload.ContentType).Int("bytes", len(input.Data)).
		Msgf("documentService.Extract: extracting %s", input.FileName)

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	var (
		docType domain.DocumentType
		fields  map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.storage != nil {
		g.Go(func() error {
			_, err := s.storage.Upload(gctx, port.UploadInput{
				Bucket:      s.bucket,
				Key:         doc.FileKey,
				Body:        bytes.NewReader(input.Data),
				ContentType: upload.ContentType,
				Size:        int64(len(input.Data)),
			})
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		in := port.ExtractInput{FileBytes: input.Data, ContentType: upload.ContentType}
		dt, err := s.extractor.Classify(gctx, in)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
		}
		docType = dt
		if !s.schema.Supports(dt) {
			fields = map[string]string{}
			return nil
		}
		out, err := s.extractor.Extract(gctx, in, dt)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
		}
		fields = out
		return nil
	})
	if err := g.Wait(); err != nil {
		s.failExtraction(ctx, doc.ID, err)
		return nil, err
	}

	if err := s.storeExtraction(ctx, doc.ID, docType, fields); err != nil {
		s.failExtraction(ctx, doc.ID, err)
		return nil, err
	}

	log.Info().Str("document_id", doc.ID).Str("document_type", string(docType)).Int("fields", len(fields)).
		Msg("documentService.Extract: extraction stored")

	return &domain.ExtractionResult{
		DocumentID:      doc.ID,
		DocumentType:    docType,
		DocumentContent: fields,
	}, nil
}

// Classify validates an upload and reports its document type. Nothing is
// stored.
func (s *documentService) Classify(ctx context.Context, input *ExtractDocumentInput) (*domain.ClassificationResult, error) {
	upload, err := inspectUpload(input.FileName, input.Data, s.maxBytes)
	if err != nil {
		return nil, err
	}

	docType, err := s.extractor.Classify(ctx, port.ExtractInput{FileBytes: input.Data, ContentType: upload.ContentType})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	log.Info().Str("document_type", string(docType)).Msgf("documentService.Classify: classified %s", input.FileName)
	return &domain.ClassificationResult{DocumentType: docType}, nil
}

func (s *documentService) storeExtraction(ctx context.Context, docID string, docType domain.DocumentType, fields map[string]string) error {
	if docType != domain.DocumentTypeUnknown {
		if err := s.docRepo.UpdateDocumentType(ctx, docID, docType); err != nil {
			return fmt.Errorf("updating document type: %w", err)
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([]domain.Field, 0, len(names))
	for _, name := range names {
		rows = append(rows, domain.Field{
			DocumentID:    docID,
			FieldName:     name,
			OriginalValue: fields[name],
			CurrentValue:  fields[name],
		})
	}
	if err := s.fieldRepo.CreateBatch(ctx, rows); err != nil {
		return fmt.Errorf("storing fields: %w", err)
	}

	if err := s.docRepo.UpdateStatus(ctx, docID, domain.DocumentStatusExtracted); err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding extraction record: %w", err)
	}
	if err := s.historyRepo.Create(ctx, &domain.ExtractionRecord{
		DocumentID:    docID,
		Status:        domain.ExtractionSucceeded,
		ExtractedData: data,
	}); err != nil {
		log.Warn().Err(err).Str("document_id", docID).Msg("documentService.Extract: failed to record extraction history")
	}
	return nil
}

// failExtraction marks the document as errored and records the failure,
// detached from cancellation of ctx.
func (s *documentService) failExtraction(ctx context.Context, docID string, cause error) {
	log.Error().Err(cause).Str("document_id", docID).Msg("documentService.Extract: extraction failed")

	ctx = context.WithoutCancel(ctx)
	if err := s.docRepo.UpdateStatus(ctx, docID, domain.DocumentStatusError); err != nil {
		log.Warn().Err(err).Str("document_id", docID).Msg("documentService.Extract: failed to mark document as errored")
	}
	if err := s.historyRepo.Create(ctx, &domain.ExtractionRecord{
		DocumentID:   docID,
		Status:       domain.ExtractionFailed,
		ErrorMessage: cause.Error(),
	}); err != nil {
		log.Warn().Err(err).Str("document_id", docID).Msg("documentService.Extract: failed to record extraction history")
	}
}

func (s *documentService) List(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	if limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Reason: "limit must not be negative"}
	}
	return s.docRepo.List(ctx, limit)
}

// Get returns a document with its fields keyed by name and a preview of
// the original. A preview that cannot be fetched from storage is omitted.
func (s *documentService) Get(ctx context.Context, docID string) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	fields, err := s.fieldRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	doc.Fields = make(map[string]domain.Field, len(fields))
	for _, f := range fields {
		doc.Fields[f.FieldName] = f
	}

	if doc.FileDataURL == "" && doc.FileKey != "" && s.storage != nil {
		data, err := s.storage.Download(ctx, s.bucket, doc.FileKey)
		if err != nil {
			log.Warn().Err(err).Str("document_id", docID).Msg("documentService.Get: preview unavailable")
		} else {
			doc.FileDataURL = dataURL(doc.ContentType, data)
		}
	}
	return doc, nil
}

// UpdateField stores a manual correction. The field keeps its original
// value, is flagged corrected and its document becomes verified.
func (s *documentService) UpdateField(ctx context.Context, fieldID, value string) (*domain.Field, error) {
	if strings.TrimSpace(fieldID) == "" {
		return nil, &domain.ValidationError{Field: "field_id", Reason: "field id is required"}
	}

	correction := &domain.FieldCorrection{
		FieldID:     fieldID,
		NewValue:    value,
		CorrectedBy: "user",
	}
	field, err := s.fieldRepo.ApplyCorrection(ctx, correction)
	if err != nil {
		return nil, err
	}

	log.Info().Str("document_id", field.DocumentID).Str("field", field.FieldName).
		Msg("documentService.UpdateField: correction stored")
	return field, nil
}

// Delete removes a document with its fields and history. Removing the
// stored original is best effort.
func (s *documentService) Delete(ctx context.Context, docID string) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, docID); err != nil {
		return err
	}

	if s.storage != nil && doc.FileKey != "" {
		if err := s.storage.Delete(ctx, s.bucket, doc.FileKey); err != nil {
			log.Warn().Err(err).Str("document_id", docID).Str("key", doc.FileKey).
				Msg("documentService.Delete: failed to delete stored original")
		}
	}
	log.Info().Str("document_id", docID).Msg("documentService.Delete: document deleted")
	return nil
}

func (s *documentService) ListCorrections(ctx context.Context, docID string) ([]domain.FieldCorrection, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	return s.fieldRepo.ListCorrections(ctx, docID)
}

func (s *documentService) ListExtractions(ctx context.Context, docID string) ([]domain.ExtractionRecord, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByDocument(ctx, docID)
}

func (s *documentService) DocumentTypes() map[domain.DocumentType][]string {
	return s.schema.Names()
}
