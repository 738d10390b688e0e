package handler

import (
	"io"

	"hookharbor/internal/adapter/http/dto"
	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"
	"hookharbor/pkg/response"

	"github.com/gin-gonic/gin"
)

// UploadHandler handles file uploads to object storage.
type UploadHandler struct {
	uploadSvc ports.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadSvc ports.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Upload handles POST /api/v1/uploads (multipart form, field "file").
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("file field is required"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperror.Validation("cannot open uploaded file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	result, err := h.uploadSvc.Upload(c.Request.Context(), ports.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.UploadResponse{Key: result.Key, URL: result.URL})
}
