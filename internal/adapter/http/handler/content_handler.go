package handler

import (
	"hookharbor/internal/adapter/http/dto"
	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"
	"hookharbor/pkg/response"

	"github.com/gin-gonic/gin"
)

// ContentHandler handles the CMS content endpoints.
type ContentHandler struct {
	contentSvc ports.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentSvc ports.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// Get handles GET /api/v1/content/:kind (public).
func (h *ContentHandler) Get(c *gin.Context) {
	content, err := h.contentSvc.Get(c.Request.Context(), c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewContentResponse(content))
}

// Upsert handles PUT /api/v1/content/:kind (authenticated).
func (h *ContentHandler) Upsert(c *gin.Context) {
	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	content, err := h.contentSvc.Upsert(c.Request.Context(), c.Param("kind"), req.Payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewContentResponse(content))
}
