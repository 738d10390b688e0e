package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"
)

// ContentServiceImpl implements ports.ContentService over keyed-singleton
// documents: one row per kind, replaced wholesale on write.
type ContentServiceImpl struct {
	contentRepo ports.ContentRepository
}

// NewContentService creates a new ContentServiceImpl.
func NewContentService(contentRepo ports.ContentRepository) *ContentServiceImpl {
	return &ContentServiceImpl{contentRepo: contentRepo}
}

// Get fetches the document for a kind.
func (s *ContentServiceImpl) Get(ctx context.Context, kind string) (*domain.Content, error) {
	k := domain.ContentKind(kind)
	if !domain.ValidContentKind(k) {
		return nil, apperror.Validation("unknown content kind: " + kind)
	}

	content, err := s.contentRepo.Get(ctx, k)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get content: %w", err))
	}
	if content == nil {
		return nil, apperror.ErrNotFound("content")
	}
	return content, nil
}

// Upsert replaces the document for a kind.
func (s *ContentServiceImpl) Upsert(ctx context.Context, kind string, payload json.RawMessage) (*domain.Content, error) {
	k := domain.ContentKind(kind)
	if !domain.ValidContentKind(k) {
		return nil, apperror.Validation("unknown content kind: " + kind)
	}
	if !json.Valid(payload) {
		return nil, apperror.Validation("payload must be valid JSON")
	}

	content := &domain.Content{
		Kind:      k,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.contentRepo.Upsert(ctx, content); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("upsert content: %w", err))
	}
	return content, nil
}
