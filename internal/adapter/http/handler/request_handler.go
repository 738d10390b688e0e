package handler

import (
	"strings"

	"hookharbor/internal/adapter/http/dto"
	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"
	"hookharbor/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequestHandler handles captured-request query and retention endpoints.
type RequestHandler struct {
	requestSvc ports.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestSvc ports.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// List handles GET /api/v1/webhooks/:id/requests.
func (h *RequestHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var q dto.ListRequestsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	query := ports.RequestQuery{
		Page:      q.Page,
		Limit:     q.Limit,
		SortOrder: q.SortOrder,
	}
	if q.Method != "" {
		m := strings.ToUpper(q.Method)
		query.Method = &m
	}

	requests, meta, err := h.requestSvc.List(c.Request.Context(), webhookID, userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.RequestSummaryResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewRequestSummaryResponse(&requests[i]))
	}
	response.OKPaged(c, out, meta)
}

// Get handles GET /api/v1/webhooks/:id/requests/:requestId.
func (h *RequestHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	requestID, ok := pathUUID(c, "requestId")
	if !ok {
		return
	}

	req, err := h.requestSvc.GetOne(c.Request.Context(), requestID, webhookID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewRequestDetailResponse(req))
}

// RemoveAll handles DELETE /api/v1/webhooks/:id/requests.
func (h *RequestHandler) RemoveAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.requestSvc.RemoveAll(c.Request.Context(), webhookID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RemoveAllResponse{DeletedCount: deleted})
}

// Statistics handles GET /api/v1/webhooks/:id/requests/statistics.
func (h *RequestHandler) Statistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.requestSvc.GetStatistics(c.Request.Context(), webhookID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStatisticsResponse(stats))
}
