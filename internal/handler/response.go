package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"docverify/internal/domain"
	"docverify/internal/extractor"
)

// APIResponse is the envelope of error responses. Successful responses
// carry the resource itself.
type APIResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 response with data as the body.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		switch {
		case errors.Is(err, domain.ErrFileTooLarge):
			return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", ve.Reason
		case errors.Is(err, domain.ErrUnsupportedFileType):
			return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", ve.Reason
		case errors.Is(err, domain.ErrEmptyFile):
			return http.StatusBadRequest, "EMPTY_FILE", ve.Reason
		case errors.Is(err, domain.ErrUnreadablePDF):
			return http.StatusBadRequest, "UNREADABLE_PDF", ve.Reason
		default:
			return http.StatusBadRequest, "VALIDATION_ERROR", ve.Error()
		}
	}

	var rl *extractor.RateLimitError
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found"
	case errors.Is(err, domain.ErrFieldNotFound):
		return http.StatusNotFound, "FIELD_NOT_FOUND", "Field not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.As(err, &rl):
		return http.StatusServiceUnavailable, "EXTRACTOR_RATE_LIMITED", "extraction service is busy; retry after " + rl.RetryAfter.String()
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway, "EXTRACTION_FAILED", "field extraction failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Error().Err(err).Interface("request_id", requestID).Str("path", c.FullPath()).Msg("handler: request failed")
	}
	var rl *extractor.RateLimitError
	if errors.As(err, &rl) {
		c.Header("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
	}
	RespondError(c, status, code, msg)
}
