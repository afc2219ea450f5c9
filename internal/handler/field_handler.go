package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docverify/internal/service"
)

// FieldHandler handles manual field corrections.
type FieldHandler struct {
	documentService service.DocumentService
}

// NewFieldHandler creates a new FieldHandler.
func NewFieldHandler(documentService service.DocumentService) *FieldHandler {
	return &FieldHandler{documentService: documentService}
}

// Update handles PUT /fields/:id with body {"value": "..."}.
// An empty string is a valid correction.
func (h *FieldHandler) Update(c *gin.Context) {
	var req struct {
		Value *string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "value is required")
		return
	}

	field, err := h.documentService.UpdateField(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, field)
}
