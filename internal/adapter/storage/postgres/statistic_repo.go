package postgres

import (
	"context"
	"errors"
	"fmt"

	"hookharbor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StatisticRepo implements ports.WebhookStatisticRepository.
type StatisticRepo struct {
	pool Pool
}

// NewStatisticRepo creates a new StatisticRepo.
func NewStatisticRepo(pool Pool) *StatisticRepo {
	return &StatisticRepo{pool: pool}
}

// Increment bumps the total and the per-method bucket in one atomic upsert.
// Concurrent ingestion for the same webhook serializes on the row inside
// Postgres; there is no read-modify-write window to lose updates in.
func (r *StatisticRepo) Increment(ctx context.Context, webhookID uuid.UUID, method string) error {
	query := `INSERT INTO webhook_statistics (webhook_id, total_requests, methods_count, last_request_at)
		VALUES ($1, 1, jsonb_build_object($2::text, 1), NOW())
		ON CONFLICT (webhook_id) DO UPDATE SET
			total_requests = webhook_statistics.total_requests + 1,
			methods_count = jsonb_set(
				COALESCE(webhook_statistics.methods_count, '{}'::jsonb),
				ARRAY[$2::text],
				to_jsonb(COALESCE((webhook_statistics.methods_count ->> $2)::bigint, 0) + 1)),
			last_request_at = NOW()`

	_, err := r.pool.Exec(ctx, query, webhookID, method)
	if err != nil {
		return fmt.Errorf("increment webhook statistics: %w", err)
	}
	return nil
}

// Get fetches the counter row, or nil when no request was ever recorded.
func (r *StatisticRepo) Get(ctx context.Context, webhookID uuid.UUID) (*domain.WebhookStatistic, error) {
	query := `SELECT webhook_id, total_requests, methods_count, last_request_at
		FROM webhook_statistics WHERE webhook_id = $1`

	s := &domain.WebhookStatistic{}
	err := r.pool.QueryRow(ctx, query, webhookID).Scan(
		&s.WebhookID, &s.TotalRequests, &s.MethodsCount, &s.LastRequestAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook statistics: %w", err)
	}
	return s, nil
}

// Reset zeroes the counter row within the purge transaction. A webhook that
// never received a request has no row; zero rows affected is not an error.
func (r *StatisticRepo) Reset(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) error {
	query := `UPDATE webhook_statistics
		SET total_requests = 0, methods_count = '{}'::jsonb, last_request_at = NULL
		WHERE webhook_id = $1`

	if _, err := tx.Exec(ctx, query, webhookID); err != nil {
		return fmt.Errorf("reset webhook statistics: %w", err)
	}
	return nil
}

// DeleteForWebhook removes the counter row within the webhook delete transaction.
func (r *StatisticRepo) DeleteForWebhook(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM webhook_statistics WHERE webhook_id = $1`, webhookID); err != nil {
		return fmt.Errorf("delete webhook statistics: %w", err)
	}
	return nil
}
