package ports

import (
	"context"
	"errors"

	"hookharbor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrEmailTaken reports a duplicate email at insert time. The unique index is
// the source of truth; a pre-insert lookup alone cannot close the race.
var ErrEmailTaken = errors.New("email already taken")

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create returns ErrEmailTaken when the email unique index rejects the row.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// WebhookRepository is the registry: token -> webhook resolution for the
// ingestion path and owner-scoped lookups for the management path.
// Token uniqueness is enforced by a unique index, not by check-then-insert.
type WebhookRepository interface {
	Create(ctx context.Context, webhook *domain.Webhook) error
	// GetByToken resolves the ingestion credential. Exact match only.
	GetByToken(ctx context.Context, token string) (*domain.Webhook, error)
	// GetByIDForUser returns nil when the webhook is absent OR owned by a
	// different user; callers must not be able to tell the two apart.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Webhook, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error)
	Update(ctx context.Context, webhook *domain.Webhook) error
	// Delete removes the webhook row inside a transaction; dependent request
	// and statistic rows are removed first by the caller.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// WebhookRequestRepository persists captured requests.
type WebhookRequestRepository interface {
	Create(ctx context.Context, req *domain.WebhookRequest) error
	// GetByID scopes the lookup to a webhook so a request id from another
	// webhook behaves as not-found.
	GetByID(ctx context.Context, id, webhookID uuid.UUID) (*domain.WebhookRequest, error)
	List(ctx context.Context, params RequestListParams) ([]domain.WebhookRequest, int64, error)
	CountByWebhook(ctx context.Context, webhookID uuid.UUID) (int64, error)
	// DeleteAllForWebhook runs within the purge transaction and returns the
	// number of rows removed.
	DeleteAllForWebhook(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) (int64, error)
}

// RequestListParams holds filter + pagination for listing captured requests.
type RequestListParams struct {
	WebhookID uuid.UUID
	Method    *string // exact match
	Page      int     // >= 1
	Limit     int     // 1..100
	Ascending bool    // sort by received_at; default newest first
}

// WebhookStatisticRepository maintains the per-webhook counter row.
type WebhookStatisticRepository interface {
	// Increment performs a single atomic upsert: create the row with count 1
	// if absent, otherwise add 1 to the total and to the method bucket.
	// Never implemented as read-then-write.
	Increment(ctx context.Context, webhookID uuid.UUID, method string) error
	// Get returns nil (not an error) when no request was ever recorded.
	Get(ctx context.Context, webhookID uuid.UUID) (*domain.WebhookStatistic, error)
	// Reset zeroes the row within the purge transaction.
	Reset(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) error
	// DeleteForWebhook removes the row within the webhook delete transaction.
	DeleteForWebhook(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) error
}

// ContentRepository stores keyed-singleton CMS documents.
type ContentRepository interface {
	Get(ctx context.Context, kind domain.ContentKind) (*domain.Content, error)
	Upsert(ctx context.Context, content *domain.Content) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
