package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RequestRepo implements ports.WebhookRequestRepository.
type RequestRepo struct {
	pool Pool
}

// NewRequestRepo creates a new RequestRepo.
func NewRequestRepo(pool Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

// Create inserts a captured request row.
func (r *RequestRepo) Create(ctx context.Context, req *domain.WebhookRequest) error {
	query := `INSERT INTO webhook_requests (id, webhook_id, method, path, query_params,
		headers, body, body_size, ip_address, user_agent, received_at, processing_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.WebhookID, req.Method, req.Path, req.QueryParams,
		req.Headers, req.Body, req.BodySize, req.IPAddress, req.UserAgent,
		req.ReceivedAt, req.ProcessingTimeMs,
	)
	if err != nil {
		return fmt.Errorf("insert webhook request: %w", err)
	}
	return nil
}

// GetByID fetches one captured request including the body, scoped to a webhook.
func (r *RequestRepo) GetByID(ctx context.Context, id, webhookID uuid.UUID) (*domain.WebhookRequest, error) {
	query := `SELECT id, webhook_id, method, path, query_params, headers, body,
		body_size, ip_address, user_agent, received_at, processing_time_ms
		FROM webhook_requests WHERE id = $1 AND webhook_id = $2`

	req := &domain.WebhookRequest{}
	err := r.pool.QueryRow(ctx, query, id, webhookID).Scan(
		&req.ID, &req.WebhookID, &req.Method, &req.Path, &req.QueryParams,
		&req.Headers, &req.Body, &req.BodySize, &req.IPAddress, &req.UserAgent,
		&req.ReceivedAt, &req.ProcessingTimeMs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook request: %w", err)
	}
	return req, nil
}

// List fetches a page of request summaries. The body column is excluded;
// full payloads come from GetByID. The secondary sort on id keeps listings
// stable when two rows share a timestamp.
func (r *RequestRepo) List(ctx context.Context, params ports.RequestListParams) ([]domain.WebhookRequest, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("webhook_id = $%d", argIdx))
	args = append(args, params.WebhookID)
	argIdx++

	if params.Method != nil {
		conditions = append(conditions, fmt.Sprintf("method = $%d", argIdx))
		args = append(args, *params.Method)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM webhook_requests %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count webhook requests: %w", err)
	}

	dir := "DESC"
	if params.Ascending {
		dir = "ASC"
	}

	// Fetch page
	offset := (params.Page - 1) * params.Limit
	dataQuery := fmt.Sprintf(`SELECT id, webhook_id, method, path, query_params, headers,
		body_size, ip_address, user_agent, received_at, processing_time_ms
		FROM webhook_requests %s ORDER BY received_at %s, id %s LIMIT $%d OFFSET $%d`,
		where, dir, dir, argIdx, argIdx+1)
	args = append(args, params.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list webhook requests: %w", err)
	}
	defer rows.Close()

	var reqs []domain.WebhookRequest
	for rows.Next() {
		req := domain.WebhookRequest{}
		err := rows.Scan(
			&req.ID, &req.WebhookID, &req.Method, &req.Path, &req.QueryParams,
			&req.Headers, &req.BodySize, &req.IPAddress, &req.UserAgent,
			&req.ReceivedAt, &req.ProcessingTimeMs,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan webhook request row: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate webhook request rows: %w", err)
	}
	return reqs, total, nil
}

// CountByWebhook returns the total number of captured requests for a webhook.
func (r *RequestRepo) CountByWebhook(ctx context.Context, webhookID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM webhook_requests WHERE webhook_id = $1`, webhookID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count webhook requests: %w", err)
	}
	return count, nil
}

// DeleteAllForWebhook removes every request row for a webhook within the
// purge transaction and returns the deleted row count.
func (r *RequestRepo) DeleteAllForWebhook(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM webhook_requests WHERE webhook_id = $1`, webhookID)
	if err != nil {
		return 0, fmt.Errorf("delete webhook requests: %w", err)
	}
	return tag.RowsAffected(), nil
}
