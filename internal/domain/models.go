package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Document is one uploaded source file plus its extraction state and recognized fields.
type Document struct {
	ID           string           `db:"id" json:"id"`
	DocumentType DocumentType     `db:"document_type" json:"document_type"`
	FileName     string           `db:"file_name" json:"file_name"`
	ContentType  string           `db:"content_type" json:"content_type,omitempty"`
	FileKey      string           `db:"file_key" json:"-"`
	FileDataURL  string           `db:"file_data_url" json:"file_data_url,omitempty"`
	PageCount    int              `db:"page_count" json:"page_count"`
	UploadDate   Timestamp        `db:"upload_date" json:"upload_date"`
	LastModified Timestamp        `db:"last_modified" json:"last_modified"`
	Status       DocumentStatus   `db:"status" json:"status"`
	Fields       map[string]Field `db:"-" json:"fields,omitempty"`
}

// Summary returns the list projection of the document.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:           d.ID,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		UploadDate:   d.UploadDate,
		LastModified: d.LastModified,
		Status:       d.Status,
	}
}

// FieldNames returns the document's field names in ascending order.
func (d *Document) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DocumentSummary is the list representation of a document (no fields, no preview).
type DocumentSummary struct {
	ID           string         `db:"id" json:"id"`
	DocumentType DocumentType   `db:"document_type" json:"document_type"`
	FileName     string         `db:"file_name" json:"file_name"`
	UploadDate   Timestamp      `db:"upload_date" json:"upload_date"`
	LastModified Timestamp      `db:"last_modified" json:"last_modified"`
	Status       DocumentStatus `db:"status" json:"status"`
}

// Field is one named datum recognized within a document.
type Field struct {
	ID             string    `db:"id" json:"id"`
	DocumentID     string    `db:"document_id" json:"document_id,omitempty"`
	FieldName      string    `db:"field_name" json:"field_name,omitempty"`
	OriginalValue  string    `db:"original_value" json:"original_value"`
	CurrentValue   string    `db:"current_value" json:"current_value"`
	IsCorrected    bool      `db:"is_corrected" json:"is_corrected"`
	ExtractionDate Timestamp `db:"extraction_date" json:"-"`
}

// FieldUpdate is the service's reply to a field save. Keys missing from
// the reply stay nil so the caller keeps its own values for them.
type FieldUpdate struct {
	ID            string  `json:"id"`
	FieldName     *string `json:"field_name,omitempty"`
	OriginalValue *string `json:"original_value,omitempty"`
	CurrentValue  *string `json:"current_value,omitempty"`
	IsCorrected   *bool   `json:"is_corrected,omitempty"`
}

// Merge overlays the keys present in u onto f.
func (u *FieldUpdate) Merge(f Field) Field {
	if u == nil {
		return f
	}
	if u.ID != "" {
		f.ID = u.ID
	}
	if u.FieldName != nil {
		f.FieldName = *u.FieldName
	}
	if u.OriginalValue != nil {
		f.OriginalValue = *u.OriginalValue
	}
	if u.CurrentValue != nil {
		f.CurrentValue = *u.CurrentValue
	}
	if u.IsCorrected != nil {
		f.IsCorrected = *u.IsCorrected
	}
	return f
}

// FieldCorrection is one entry of a field's manual correction history.
type FieldCorrection struct {
	ID             string    `db:"id" json:"id"`
	DocumentID     string    `db:"document_id" json:"document_id"`
	FieldID        string    `db:"field_id" json:"field_id"`
	FieldName      string    `db:"field_name" json:"field_name"`
	OldValue       string    `db:"old_value" json:"old_value"`
	NewValue       string    `db:"new_value" json:"new_value"`
	CorrectionDate Timestamp `db:"correction_date" json:"correction_date"`
	CorrectedBy    string    `db:"corrected_by" json:"corrected_by"`
}

// ExtractionRecord is one entry of a document's extraction history.
type ExtractionRecord struct {
	ID             string            `db:"id" json:"id"`
	DocumentID     string            `db:"document_id" json:"document_id"`
	ExtractionDate Timestamp         `db:"extraction_date" json:"extraction_date"`
	Status         ExtractionOutcome `db:"status" json:"status"`
	ErrorMessage   string            `db:"error_message" json:"error_message,omitempty"`
	ExtractedData  json.RawMessage   `db:"extracted_data" json:"extracted_data,omitempty"`
}

// ExtractionResult is the response of an extraction request.
// DocumentID is empty when the service does not report the created document.
type ExtractionResult struct {
	DocumentID      string            `json:"document_id,omitempty"`
	DocumentType    DocumentType      `json:"document_type"`
	DocumentContent map[string]string `json:"document_content"`
}

// ClassificationResult is the reply to a classification-only request.
type ClassificationResult struct {
	DocumentType DocumentType `json:"document_type"`
}

// FieldSpec describes one field the extractor looks for.
type FieldSpec struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Date        bool   `yaml:"date" json:"date,omitempty"`
}

// Notification is an operator-facing message raised by a coordinator.
type Notification struct {
	Level   NotificationLevel
	Message string
	Err     error
	At      time.Time
}
