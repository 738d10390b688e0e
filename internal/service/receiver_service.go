package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sensitiveHeaderMarkers flags headers whose values must never be stored.
// Matching is case-insensitive substring, so Authorization, X-Api-Key,
// X-Webhook-Token and friends are all caught.
var sensitiveHeaderMarkers = []string{
	"authorization",
	"cookie",
	"api-key",
	"token",
	"password",
	"secret",
}

const redactedValue = "[REDACTED]"

// statsTimeout bounds the asynchronous statistics update; the inbound
// request context is already gone by the time it runs.
const statsTimeout = 5 * time.Second

// ReceiverServiceImpl implements ports.ReceiverService, the unauthenticated
// hot path: resolve the token, record the request, bump counters.
type ReceiverServiceImpl struct {
	webhookRepo ports.WebhookRepository
	requestRepo ports.WebhookRequestRepository
	statRepo    ports.WebhookStatisticRepository
	log         zerolog.Logger
}

// NewReceiverService creates a new ReceiverServiceImpl.
func NewReceiverService(
	webhookRepo ports.WebhookRepository,
	requestRepo ports.WebhookRequestRepository,
	statRepo ports.WebhookStatisticRepository,
	log zerolog.Logger,
) *ReceiverServiceImpl {
	return &ReceiverServiceImpl{
		webhookRepo: webhookRepo,
		requestRepo: requestRepo,
		statRepo:    statRepo,
		log:         log,
	}
}

// Receive records one inbound call. An unknown token and an inactive
// webhook produce the same not-found error so probes cannot distinguish
// them. The statistics update runs asynchronously and its failure never
// fails the recording.
func (s *ReceiverServiceImpl) Receive(ctx context.Context, in ports.InboundRequest) (*ports.Receipt, error) {
	webhook, err := s.webhookRepo.GetByToken(ctx, in.Token)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve token: %w", err))
	}
	if webhook == nil || !webhook.IsActive {
		return nil, apperror.ErrWebhookNotFound()
	}

	receivedAt := time.Now().UTC()
	req := &domain.WebhookRequest{
		ID:               uuid.New(),
		WebhookID:        webhook.ID,
		Method:           in.Method,
		Path:             in.Path,
		QueryParams:      in.Query,
		Headers:          SanitizeHeaders(in.Headers),
		Body:             string(in.Body),
		BodySize:         int64(len(in.Body)),
		IPAddress:        in.IP,
		ReceivedAt:       receivedAt,
		ProcessingTimeMs: receivedAt.Sub(in.StartedAt).Milliseconds(),
	}
	if ua, ok := in.Headers["User-Agent"]; ok && ua != "" {
		req.UserAgent = &ua
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record request: %w", err))
	}

	// Best-effort counter bump off the request path.
	go func(webhookID uuid.UUID, method string) {
		sctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		if err := s.statRepo.Increment(sctx, webhookID, method); err != nil {
			s.log.Warn().Err(err).
				Str("webhook_id", webhookID.String()).
				Str("method", method).
				Msg("failed to update webhook statistics")
		}
	}(webhook.ID, in.Method)

	return &ports.Receipt{
		RequestID: req.ID,
		Timestamp: receivedAt,
	}, nil
}

// SanitizeHeaders replaces the values of credential-bearing headers before
// anything touches storage. Header names are preserved so users can still
// see that a header was sent.
func SanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		lower := strings.ToLower(name)
		redact := false
		for _, marker := range sensitiveHeaderMarkers {
			if strings.Contains(lower, marker) {
				redact = true
				break
			}
		}
		if redact {
			out[name] = redactedValue
		} else {
			out[name] = value
		}
	}
	return out
}
