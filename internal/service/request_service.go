package service

import (
	"context"
	"fmt"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pagination bounds for captured-request listings.
const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// RequestServiceImpl implements ports.RequestService, the authenticated
// query and retention boundary over captured requests.
type RequestServiceImpl struct {
	webhookRepo ports.WebhookRepository
	requestRepo ports.WebhookRequestRepository
	statRepo    ports.WebhookStatisticRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewRequestService creates a new RequestServiceImpl.
func NewRequestService(
	webhookRepo ports.WebhookRepository,
	requestRepo ports.WebhookRequestRepository,
	statRepo ports.WebhookStatisticRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		webhookRepo: webhookRepo,
		requestRepo: requestRepo,
		statRepo:    statRepo,
		transactor:  transactor,
		log:         log,
	}
}

// List returns one page of captured requests for a webhook the user owns.
func (s *RequestServiceImpl) List(ctx context.Context, webhookID, userID uuid.UUID, q ports.RequestQuery) ([]domain.WebhookRequest, *ports.PageMeta, error) {
	if err := s.resolveForOwner(ctx, webhookID, userID); err != nil {
		return nil, nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	requests, total, err := s.requestRepo.List(ctx, ports.RequestListParams{
		WebhookID: webhookID,
		Method:    q.Method,
		Page:      page,
		Limit:     limit,
		Ascending: q.SortOrder == "asc",
	})
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("list requests: %w", err))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	meta := &ports.PageMeta{
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
	return requests, meta, nil
}

// GetOne returns one captured request including its body.
func (s *RequestServiceImpl) GetOne(ctx context.Context, requestID, webhookID, userID uuid.UUID) (*domain.WebhookRequest, error) {
	if err := s.resolveForOwner(ctx, webhookID, userID); err != nil {
		return nil, err
	}

	req, err := s.requestRepo.GetByID(ctx, requestID, webhookID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
	}
	if req == nil {
		return nil, apperror.ErrNotFound("request")
	}
	return req, nil
}

// RemoveAll purges every captured request and resets the counters in a
// single transaction, so a crash can never leave counts describing rows
// that no longer exist.
func (s *RequestServiceImpl) RemoveAll(ctx context.Context, webhookID, userID uuid.UUID) (int64, error) {
	if err := s.resolveForOwner(ctx, webhookID, userID); err != nil {
		return 0, err
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	deleted, err := s.requestRepo.DeleteAllForWebhook(ctx, tx, webhookID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("delete requests: %w", err))
	}
	if err := s.statRepo.Reset(ctx, tx, webhookID); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("reset statistics: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Str("webhook_id", webhookID.String()).
		Int64("deleted", deleted).
		Msg("webhook requests purged")
	return deleted, nil
}

// GetStatistics returns the live counters, or a zeroed row when nothing
// was ever recorded. Absence of traffic is not an error.
func (s *RequestServiceImpl) GetStatistics(ctx context.Context, webhookID, userID uuid.UUID) (*domain.WebhookStatistic, error) {
	if err := s.resolveForOwner(ctx, webhookID, userID); err != nil {
		return nil, err
	}

	stats, err := s.statRepo.Get(ctx, webhookID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get statistics: %w", err))
	}
	if stats == nil {
		stats = &domain.WebhookStatistic{
			WebhookID:    webhookID,
			MethodsCount: map[string]int64{},
		}
	}
	if stats.MethodsCount == nil {
		stats.MethodsCount = map[string]int64{}
	}
	return stats, nil
}

// resolveForOwner maps both "does not exist" and "owned by someone else"
// to the same not-found error.
func (s *RequestServiceImpl) resolveForOwner(ctx context.Context, webhookID, userID uuid.UUID) error {
	webhook, err := s.webhookRepo.GetByIDForUser(ctx, webhookID, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return apperror.ErrNotFound("webhook")
	}
	return nil
}
