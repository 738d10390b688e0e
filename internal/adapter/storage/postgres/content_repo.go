package postgres

import (
	"context"
	"errors"
	"fmt"

	"hookharbor/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ContentRepo implements ports.ContentRepository.
type ContentRepo struct {
	pool Pool
}

// NewContentRepo creates a new ContentRepo.
func NewContentRepo(pool Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// Get fetches a document by kind, or nil when it was never written.
func (r *ContentRepo) Get(ctx context.Context, kind domain.ContentKind) (*domain.Content, error) {
	query := `SELECT kind, payload, updated_at FROM contents WHERE kind = $1`

	c := &domain.Content{}
	err := r.pool.QueryRow(ctx, query, kind).Scan(&c.Kind, &c.Payload, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	return c, nil
}

// Upsert creates or replaces the document for a kind.
func (r *ContentRepo) Upsert(ctx context.Context, c *domain.Content) error {
	query := `INSERT INTO contents (kind, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind) DO UPDATE SET payload = $2, updated_at = $3`

	if _, err := r.pool.Exec(ctx, query, c.Kind, c.Payload, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}
	return nil
}
