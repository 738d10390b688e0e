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

// tokenBytes is the entropy of an ingestion token; 32 bytes hex-encode to
// 64 characters.
const tokenBytes = 32

// WebhookServiceImpl implements ports.WebhookService, the registry side of
// the system: endpoint lifecycle and owner-scoped reads.
type WebhookServiceImpl struct {
	webhookRepo ports.WebhookRepository
	requestRepo ports.WebhookRequestRepository
	statRepo    ports.WebhookStatisticRepository
	transactor  ports.DBTransactor
	baseURL     string
	prefix      string
	log         zerolog.Logger
}

// NewWebhookService creates a new WebhookServiceImpl.
func NewWebhookService(
	webhookRepo ports.WebhookRepository,
	requestRepo ports.WebhookRequestRepository,
	statRepo ports.WebhookStatisticRepository,
	transactor ports.DBTransactor,
	baseURL string,
	prefix string,
	log zerolog.Logger,
) *WebhookServiceImpl {
	return &WebhookServiceImpl{
		webhookRepo: webhookRepo,
		requestRepo: requestRepo,
		statRepo:    statRepo,
		transactor:  transactor,
		baseURL:     strings.TrimRight(baseURL, "/"),
		prefix:      strings.Trim(prefix, "/"),
		log:         log,
	}
}

// Create registers a new capture endpoint with a fresh random token.
func (s *WebhookServiceImpl) Create(ctx context.Context, userID uuid.UUID, name string, description *string) (*ports.WebhookInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	token, err := generateRandomHex(tokenBytes)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	now := time.Now().UTC()
	webhook := &domain.Webhook{
		ID:          uuid.New(),
		UserID:      userID,
		Token:       token,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.webhookRepo.Create(ctx, webhook); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create webhook: %w", err))
	}

	return &ports.WebhookInfo{
		Webhook: *webhook,
		URL:     s.ingestionURL(token),
	}, nil
}

// List returns all webhooks owned by the user, each with its URL and counters.
func (s *WebhookServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]ports.WebhookInfo, error) {
	webhooks, err := s.webhookRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list webhooks: %w", err))
	}

	infos := make([]ports.WebhookInfo, 0, len(webhooks))
	for _, w := range webhooks {
		info, err := s.enrich(ctx, w)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// Get returns one webhook owned by the user, with its URL and counters.
func (s *WebhookServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*ports.WebhookInfo, error) {
	webhook, err := s.webhookRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return nil, apperror.ErrNotFound("webhook")
	}
	return s.enrich(ctx, *webhook)
}

// Update applies partial changes to a webhook. The token never changes.
func (s *WebhookServiceImpl) Update(ctx context.Context, id, userID uuid.UUID, upd ports.WebhookUpdate) (*domain.Webhook, error) {
	webhook, err := s.webhookRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return nil, apperror.ErrNotFound("webhook")
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		webhook.Name = name
	}
	if upd.Description != nil {
		webhook.Description = upd.Description
	}
	if upd.IsActive != nil {
		webhook.IsActive = *upd.IsActive
	}
	webhook.UpdatedAt = time.Now().UTC()

	if err := s.webhookRepo.Update(ctx, webhook); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update webhook: %w", err))
	}
	return webhook, nil
}

// Delete removes a webhook and everything recorded for it in one transaction.
func (s *WebhookServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	webhook, err := s.webhookRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return apperror.ErrNotFound("webhook")
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := s.requestRepo.DeleteAllForWebhook(ctx, tx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete webhook requests: %w", err))
	}
	if err := s.statRepo.DeleteForWebhook(ctx, tx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete webhook statistics: %w", err))
	}
	if err := s.webhookRepo.Delete(ctx, tx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete webhook: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().Str("webhook_id", id.String()).Msg("webhook deleted")
	return nil
}

func (s *WebhookServiceImpl) enrich(ctx context.Context, w domain.Webhook) (*ports.WebhookInfo, error) {
	stats, err := s.statRepo.Get(ctx, w.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook statistics: %w", err))
	}
	count, err := s.requestRepo.CountByWebhook(ctx, w.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count webhook requests: %w", err))
	}
	return &ports.WebhookInfo{
		Webhook:      w,
		URL:          s.ingestionURL(w.Token),
		Statistics:   stats,
		RequestCount: count,
	}, nil
}

func (s *WebhookServiceImpl) ingestionURL(token string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.prefix, token)
}
