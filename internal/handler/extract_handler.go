package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docverify/internal/domain"
	"docverify/internal/service"
)

// multipartOverhead is headroom for form boundaries and headers on top of the file limit.
const multipartOverhead = 64 * 1024

// ExtractHandler handles uploads for classification and field extraction.
type ExtractHandler struct {
	documentService service.DocumentService
	maxBytes        int64
}

// NewExtractHandler creates a new ExtractHandler enforcing maxBytes per upload.
func NewExtractHandler(documentService service.DocumentService, maxBytes int64) *ExtractHandler {
	return &ExtractHandler{documentService: documentService, maxBytes: maxBytes}
}

// Extract handles POST /extract (multipart form, part "file").
func (h *ExtractHandler) Extract(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}
	result, err := h.documentService.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Classify handles POST /classify: the document type only, nothing stored.
func (h *ExtractHandler) Classify(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}
	result, err := h.documentService.Classify(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// readUpload reads the "file" part within the size limit. It writes the
// error response itself and reports false on failure.
func (h *ExtractHandler) readUpload(c *gin.Context) (*service.ExtractDocumentInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, h.tooLarge())
			return nil, false
		}
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form field \"file\" is required")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return nil, false
	}
	if int64(len(data)) > h.maxBytes {
		HandleError(c, h.tooLarge())
		return nil, false
	}
	return &service.ExtractDocumentInput{FileName: header.Filename, Data: data}, true
}

func (h *ExtractHandler) tooLarge() error {
	return &domain.ValidationError{
		Field:  "file",
		Reason: fmt.Sprintf("file exceeds maximum size of %d MB", h.maxBytes/(1024*1024)),
		Err:    domain.ErrFileTooLarge,
	}
}
