package postgres

import (
	"context"
	"errors"
	"fmt"

	"hookharbor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

// Create inserts a new webhook. The unique index on token is the real
// collision guard for concurrently generated tokens.
func (r *WebhookRepo) Create(ctx context.Context, w *domain.Webhook) error {
	query := `INSERT INTO webhooks (id, user_id, token, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.Token, w.Name, w.Description, w.IsActive,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}

// GetByToken resolves a webhook by its ingestion token. Exact match only.
func (r *WebhookRepo) GetByToken(ctx context.Context, token string) (*domain.Webhook, error) {
	query := `SELECT id, user_id, token, name, description, is_active, created_at, updated_at
		FROM webhooks WHERE token = $1`

	return r.scanWebhook(r.pool.QueryRow(ctx, query, token))
}

// GetByIDForUser fetches a webhook by id scoped to its owner. A webhook
// owned by another user scans as no rows, same as a nonexistent one.
func (r *WebhookRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Webhook, error) {
	query := `SELECT id, user_id, token, name, description, is_active, created_at, updated_at
		FROM webhooks WHERE id = $1 AND user_id = $2`

	return r.scanWebhook(r.pool.QueryRow(ctx, query, id, userID))
}

// ListByUser returns all webhooks owned by a user, newest first.
func (r *WebhookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error) {
	query := `SELECT id, user_id, token, name, description, is_active, created_at, updated_at
		FROM webhooks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var hooks []domain.Webhook
	for rows.Next() {
		w := domain.Webhook{}
		err := rows.Scan(&w.ID, &w.UserID, &w.Token, &w.Name, &w.Description,
			&w.IsActive, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan webhook row: %w", err)
		}
		hooks = append(hooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook rows: %w", err)
	}
	return hooks, nil
}

// Update persists name, description and active flag. The token is immutable.
func (r *WebhookRepo) Update(ctx context.Context, w *domain.Webhook) error {
	query := `UPDATE webhooks
		SET name = $1, description = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, w.Name, w.Description, w.IsActive, w.ID)
	if err != nil {
		return fmt.Errorf("update webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook not found: %s", w.ID)
	}
	return nil
}

// Delete removes the webhook row within a transaction. Dependent rows must
// already be gone; the caller owns the cascade ordering.
func (r *WebhookRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook not found: %s", id)
	}
	return nil
}

func (r *WebhookRepo) scanWebhook(row pgx.Row) (*domain.Webhook, error) {
	w := &domain.Webhook{}
	err := row.Scan(&w.ID, &w.UserID, &w.Token, &w.Name, &w.Description,
		&w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan webhook: %w", err)
	}
	return w, nil
}
