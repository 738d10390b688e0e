package domain

import (
	"time"

	"github.com/google/uuid"
)

// Webhook is a provisioned capture endpoint. The token is the only
// credential for ingestion: possession of it grants write access, and it is
// immutable once issued.
type Webhook struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Token       string    `json:"token"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WebhookRequest is one captured inbound HTTP call. Rows are immutable after
// insert; the only lifecycle event is bulk purge.
type WebhookRequest struct {
	ID               uuid.UUID         `json:"id"`
	WebhookID        uuid.UUID         `json:"webhookId"`
	Method           string            `json:"method"`
	Path             string            `json:"path"`
	QueryParams      map[string]string `json:"queryParams"`
	Headers          map[string]string `json:"headers"`
	Body             string            `json:"body"`
	BodySize         int64             `json:"bodySize"`
	IPAddress        string            `json:"ipAddress"`
	UserAgent        *string           `json:"userAgent,omitempty"`
	ReceivedAt       time.Time         `json:"receivedAt"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

// WebhookStatistic is the per-webhook rolling counter row (1:1 with Webhook,
// keyed by webhook id). Invariant: sum(MethodsCount) == TotalRequests after
// every successful increment.
type WebhookStatistic struct {
	WebhookID     uuid.UUID        `json:"webhookId"`
	TotalRequests int64            `json:"-"`
	MethodsCount  map[string]int64 `json:"methodsCount"`
	LastRequestAt *time.Time       `json:"lastRequestAt"`
}
