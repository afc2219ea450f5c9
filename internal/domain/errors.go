package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrDocumentNotFound    = fmt.Errorf("document %w", ErrNotFound)
	ErrFieldNotFound       = fmt.Errorf("field %w", ErrNotFound)
	ErrValidation          = errors.New("validation failed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("file is empty")
	ErrUnreadablePDF       = errors.New("could not read PDF document")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrExtractionFailed    = errors.New("field extraction failed")
	ErrServiceUnavailable  = errors.New("document service unavailable")
	ErrServerRejected      = errors.New("request rejected by document service")

	// Client-side state errors.
	ErrNothingStaged         = errors.New("no file staged for extraction")
	ErrNoCurrentDocument     = errors.New("no document selected")
	ErrFieldNotInLedger      = errors.New("field does not belong to the current document")
	ErrDocumentNotIdentified = errors.New("could not identify the extracted document")
	ErrDeletionCanceled      = errors.New("deletion canceled")
)

// ValidationError reports input rejected before it reaches the document service.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Reason)
}

// Unwrap exposes both ErrValidation and the specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
