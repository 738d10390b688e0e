package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReceiverHandler serves the unauthenticated capture endpoints. Its wire
// format is deliberately plain: webhook producers expect a flat JSON body,
// not the management API envelope.
type ReceiverHandler struct {
	receiverSvc ports.ReceiverService
	log         zerolog.Logger
}

// NewReceiverHandler creates a new ReceiverHandler.
func NewReceiverHandler(receiverSvc ports.ReceiverService, log zerolog.Logger) *ReceiverHandler {
	return &ReceiverHandler{receiverSvc: receiverSvc, log: log}
}

// ingestAck is the flat acknowledgment body for capture endpoints.
type ingestAck struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Receive handles ANY /:prefix/:token[/*rest]. Every method is accepted;
// the method is data here, not routing.
func (h *ReceiverHandler) Receive(c *gin.Context) {
	started := time.Now().UTC()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, ingestAck{
				Success: false,
				Message: "Payload too large",
			})
			return
		}
		h.log.Warn().Err(err).Msg("failed to read ingestion body")
		c.JSON(http.StatusInternalServerError, ingestAck{
			Success: false,
			Message: "Internal server error",
		})
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name, values := range c.Request.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	query := map[string]string{}
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	receipt, err := h.receiverSvc.Receive(c.Request.Context(), ports.InboundRequest{
		Token:     c.Param("token"),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Query:     query,
		Headers:   headers,
		Body:      body,
		IP:        c.ClientIP(),
		StartedAt: started,
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusNotFound {
			c.JSON(http.StatusNotFound, ingestAck{
				Success: false,
				Message: "Webhook not found or inactive",
			})
			return
		}
		h.log.Error().Err(err).Msg("ingestion failed")
		c.JSON(http.StatusInternalServerError, ingestAck{
			Success: false,
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, ingestAck{
		Success:   true,
		Message:   "Webhook received",
		RequestID: receipt.RequestID.String(),
		Timestamp: receipt.Timestamp.Format(time.RFC3339Nano),
	})
}
