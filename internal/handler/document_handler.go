package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docverify/internal/service"
)

// DocumentHandler handles document listing, retrieval and deletion.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// List handles GET /documents?limit=N, newest upload first.
func (h *DocumentHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	docs, err := h.documentService.List(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

// Get handles GET /documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Delete handles DELETE /documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Document deleted successfully"})
}

// Corrections handles GET /documents/:id/corrections
func (h *DocumentHandler) Corrections(c *gin.Context) {
	corrections, err := h.documentService.ListCorrections(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"corrections": corrections})
}

// History handles GET /documents/:id/history
func (h *DocumentHandler) History(c *gin.Context) {
	records, err := h.documentService.ListExtractions(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"history": records})
}

// DocumentTypes handles GET /document-types
func (h *DocumentHandler) DocumentTypes(c *gin.Context) {
	RespondOK(c, h.documentService.DocumentTypes())
}
