package ports

import (
	"context"
	"encoding/json"
	"time"

	"hookharbor/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// --- Service Ports (Business Logic) ---

// AuthService defines account registration and login.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult holds the issued session token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// WebhookService defines the registry management operations.
type WebhookService interface {
	Create(ctx context.Context, userID uuid.UUID, name string, description *string) (*WebhookInfo, error)
	List(ctx context.Context, userID uuid.UUID) ([]WebhookInfo, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*WebhookInfo, error)
	Update(ctx context.Context, id, userID uuid.UUID, upd WebhookUpdate) (*domain.Webhook, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// WebhookUpdate holds the mutable webhook fields; nil means unchanged.
type WebhookUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// WebhookInfo is a webhook enriched with its ingestion URL and live counters.
type WebhookInfo struct {
	Webhook      domain.Webhook
	URL          string
	Statistics   *domain.WebhookStatistic // nil until the first request
	RequestCount int64
}

// ReceiverService is the unauthenticated ingestion path.
type ReceiverService interface {
	// Receive resolves the token, records the request and updates statistics.
	// Unknown and inactive tokens produce the same not-found error.
	Receive(ctx context.Context, in InboundRequest) (*Receipt, error)
}

// InboundRequest describes one raw inbound HTTP call to a capture endpoint.
type InboundRequest struct {
	Token     string
	Method    string
	Path      string
	Query     map[string]string
	Headers   map[string]string
	Body      []byte
	IP        string
	StartedAt time.Time // when the endpoint began handling the request
}

// Receipt acknowledges a recorded request.
type Receipt struct {
	RequestID uuid.UUID
	Timestamp time.Time
}

// RequestService is the authenticated query & retention boundary. Every
// operation resolves ownership first; foreign webhooks are not-found.
type RequestService interface {
	List(ctx context.Context, webhookID, userID uuid.UUID, q RequestQuery) ([]domain.WebhookRequest, *PageMeta, error)
	GetOne(ctx context.Context, requestID, webhookID, userID uuid.UUID) (*domain.WebhookRequest, error)
	// RemoveAll deletes every request and resets statistics as one
	// transaction, returning the number of deleted rows.
	RemoveAll(ctx context.Context, webhookID, userID uuid.UUID) (int64, error)
	// GetStatistics returns a zeroed row when nothing was ever recorded.
	GetStatistics(ctx context.Context, webhookID, userID uuid.UUID) (*domain.WebhookStatistic, error)
}

// RequestQuery holds validated pagination/filter input.
type RequestQuery struct {
	Page      int
	Limit     int
	Method    *string
	SortOrder string // "asc" or "desc"
}

// PageMeta is pagination metadata for list responses.
type PageMeta struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// ContentService manages keyed-singleton CMS documents.
type ContentService interface {
	Get(ctx context.Context, kind string) (*domain.Content, error)
	Upsert(ctx context.Context, kind string, payload json.RawMessage) (*domain.Content, error)
}

// UploadService stores files in object storage and returns a public URL.
type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}

// UploadInput is one file to store.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult holds the stored object location.
type UploadResult struct {
	Key string
	URL string
}
