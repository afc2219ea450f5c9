package domain

import (
	"path/filepath"
	"strings"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// FileTypeFromName resolves the FileType of a file name by its extension.
// The lookup is case-insensitive; unknown extensions return a *ValidationError.
func FileTypeFromName(name string) (FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	fileType, ok := AllowedExtensions[ext]
	if !ok {
		return "", &ValidationError{
			Field:  "file",
			Reason: "only PNG, JPG, JPEG and PDF files are allowed",
			Err:    ErrUnsupportedFileType,
		}
	}
	return fileType, nil
}

// DocumentStatus represents the extraction/verification lifecycle of a document.
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusExtracted DocumentStatus = "extracted"
	DocumentStatusVerified  DocumentStatus = "verified"
	DocumentStatusError     DocumentStatus = "error"
)

// DocumentType categorizes a recognized document.
type DocumentType string

const (
	DocumentTypePassport      DocumentType = "passport"
	DocumentTypeDriverLicense DocumentType = "driver_license"
	DocumentTypeEADCard       DocumentType = "ead_card"
	DocumentTypeUnknown       DocumentType = "unknown"
)

// ParseDocumentType normalizes a classifier answer into a DocumentType.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case DocumentTypePassport:
		return DocumentTypePassport
	case DocumentTypeDriverLicense:
		return DocumentTypeDriverLicense
	case DocumentTypeEADCard:
		return DocumentTypeEADCard
	default:
		return DocumentTypeUnknown
	}
}

// ExtractionOutcome is recorded in the extraction history.
type ExtractionOutcome string

const (
	ExtractionSucceeded ExtractionOutcome = "success"
	ExtractionFailed    ExtractionOutcome = "failed"
)

// NotificationLevel classifies operator-facing notifications.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)
