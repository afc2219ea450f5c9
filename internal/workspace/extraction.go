package workspace

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/phuslu/log"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// StagedFile is a source file accepted locally and waiting for extraction.
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
	Preview     string
}

// ExtractionCoordinator drives upload, extraction and identification of a
// new document.
type ExtractionCoordinator struct {
	s *Session
}

// Stage validates a file by extension and holds it with a local preview.
// No network call is made; a rejected file never reaches the service.
func (c *ExtractionCoordinator) Stage(name string, data []byte) (*StagedFile, error) {
	fileType, err := domain.FileTypeFromName(name)
	if err != nil {
		c.s.fail("Please select a PNG, JPG, JPEG or PDF file", err)
		return nil, err
	}
	if len(data) == 0 {
		err := &domain.ValidationError{Field: "file", Reason: "file is empty", Err: domain.ErrEmptyFile}
		c.s.fail("The selected file is empty", err)
		return nil, err
	}

	contentType := domain.AllowedFileTypes[fileType]
	staged := &StagedFile{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		Preview:     dataURL(contentType, data),
	}

	c.s.mu.Lock()
	c.s.staged = staged
	c.s.mu.Unlock()

	log.Debug().Str("file", name).Int("bytes", len(data)).Msg("extraction.Stage: file staged")
	cp := *staged
	return &cp, nil
}

// Unstage drops the staged file.
func (c *ExtractionCoordinator) Unstage() {
	c.s.mu.Lock()
	c.s.staged = nil
	c.s.mu.Unlock()
}

// Extract uploads the staged file, identifies the document the service
// created, fetches it and makes it current. The staged file is kept unless
// the whole cycle succeeds; on any failure the previous current document
// stays as it was.
//
// The service is expected to report the new document id. When it does not,
// the newest entry of the refreshed list is taken instead, which picks the
// wrong document if another extraction finished in between.
func (c *ExtractionCoordinator) Extract(ctx context.Context) (*domain.Document, error) {
	c.s.mu.RLock()
	staged := c.s.staged
	c.s.mu.RUnlock()
	if staged == nil {
		c.s.notify(domain.NotifyWarning, "Select a file first", domain.ErrNothingStaged)
		return nil, domain.ErrNothingStaged
	}

	result, err := c.s.api.Extract(ctx, port.UploadFile{
		Name:        staged.Name,
		ContentType: staged.ContentType,
		Data:        staged.Data,
	})
	if err != nil {
		c.s.fail("Extraction failed", fmt.Errorf("extraction.Extract: %w", err))
		return nil, err
	}
	log.Info().
		Str("file", staged.Name).
		Str("document_type", string(result.DocumentType)).
		Int("fields", len(result.DocumentContent)).
		Msg("extraction.Extract: extraction completed")

	if _, err := c.s.repo.ListAll(ctx); err != nil {
		c.s.fail("Extraction finished but the document list could not be refreshed", err)
		return nil, err
	}

	id, err := c.identify(result)
	if err != nil {
		c.s.fail("Extraction finished but the new document could not be found", err)
		return nil, err
	}

	doc, err := c.s.repo.FetchOne(ctx, id)
	if err != nil {
		c.s.fail("Extraction finished but the new document could not be loaded", err)
		return nil, err
	}

	preview := doc.FileDataURL
	if preview == "" {
		preview = staged.Preview
	}

	c.s.mu.Lock()
	c.s.setCurrentLocked(doc, preview)
	if c.s.staged == staged {
		c.s.staged = nil
	}
	c.s.mu.Unlock()

	c.s.notify(domain.NotifyInfo, fmt.Sprintf("Extracted %d fields from %s", len(doc.Fields), staged.Name), nil)
	return doc, nil
}

// identify resolves the id of the document created by an extraction.
func (c *ExtractionCoordinator) identify(result *domain.ExtractionResult) (string, error) {
	if result.DocumentID != "" {
		return result.DocumentID, nil
	}
	newest, ok := c.s.repo.newest()
	if !ok {
		return "", fmt.Errorf("extraction.identify: %w", domain.ErrDocumentNotIdentified)
	}
	log.Warn().
		Str("document_id", newest.ID).
		Msg("extraction.identify: service returned no document id, assuming newest listed document")
	return newest.ID, nil
}

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
