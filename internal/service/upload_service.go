package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"hookharbor/internal/core/ports"
	"hookharbor/pkg/apperror"

	"github.com/google/uuid"
)

// maxUploadBytes caps a single uploaded file at 5MB.
const maxUploadBytes = 5 << 20

// ObjectStore is the storage backend the upload service writes to.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// UploadServiceImpl implements ports.UploadService on top of object storage.
type UploadServiceImpl struct {
	store ObjectStore
}

// NewUploadService creates a new UploadServiceImpl.
func NewUploadService(store ObjectStore) *UploadServiceImpl {
	return &UploadServiceImpl{store: store}
}

// Upload stores one file under a collision-free key and returns its URL.
func (s *UploadServiceImpl) Upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	if len(in.Data) == 0 {
		return nil, apperror.Validation("file is empty")
	}
	if len(in.Data) > maxUploadBytes {
		return nil, apperror.ErrPayloadTooLarge()
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("uploads/%s/%s%s",
		time.Now().UTC().Format("2006/01/02"),
		uuid.New().String(),
		safeExtension(in.Filename),
	)

	url, err := s.store.Put(ctx, key, contentType, in.Data)
	if err != nil {
		return nil, apperror.ErrStorageError(err)
	}

	return &ports.UploadResult{Key: key, URL: url}, nil
}

// safeExtension keeps only a plain file extension; anything suspicious is
// dropped rather than escaped.
func safeExtension(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		return ""
	}
	return ext
}
