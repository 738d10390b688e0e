package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"
	"hookharbor/internal/core/ports/mocks"
	"hookharbor/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockUserRepository,
	*mocks.MockHashService,
	*mocks.MockTokenService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	svc := NewAuthService(userRepo, hashSvc, tokenSvc)
	return svc, userRepo, hashSvc, tokenSvc, ctrl
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo, hashSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()

	userRepo.EXPECT().GetByEmail(ctx, "dev@example.com").Return(nil, nil)
	hashSvc.EXPECT().Hash("Sup3rSecret!").Return("$argon2id$hashed", nil)
	userRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			assert.Equal(t, "dev@example.com", u.Email)
			assert.Equal(t, "$argon2id$hashed", u.PasswordHash)
			assert.True(t, strings.HasPrefix(u.APIKey, "hh_"))
			assert.Len(t, u.APIKey, 3+32)
			return nil
		})

	user, err := svc.Register(ctx, "Dev@Example.com ", "Sup3rSecret!")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "dev@example.com", user.Email)
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	svc, userRepo, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	existing := &domain.User{ID: uuid.New(), Email: "dev@example.com"}
	userRepo.EXPECT().GetByEmail(ctx, "dev@example.com").Return(existing, nil)

	user, err := svc.Register(ctx, "dev@example.com", "Sup3rSecret!")
	assert.Nil(t, user)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_002", appErr.Code)
}

func TestAuthService_Register_DuplicateEmailRace(t *testing.T) {
	svc, userRepo, hashSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()

	// A concurrent registration wins between the lookup and the insert; the
	// unique-index violation still reads as a duplicate, not a server error.
	userRepo.EXPECT().GetByEmail(ctx, "dev@example.com").Return(nil, nil)
	hashSvc.EXPECT().Hash("Sup3rSecret!").Return("$argon2id$hashed", nil)
	userRepo.EXPECT().Create(ctx, gomock.Any()).Return(ports.ErrEmailTaken)

	user, err := svc.Register(ctx, "dev@example.com", "Sup3rSecret!")
	assert.Nil(t, user)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_002", appErr.Code)
	assert.Equal(t, 409, appErr.HTTPStatus)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	user, err := svc.Register(context.Background(), "dev@example.com", "short")
	assert.Nil(t, user)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "HOOK_003", appErr.Code)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	user, err := svc.Register(context.Background(), "not-an-email", "Sup3rSecret!")
	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, hashSvc, tokenSvc, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "dev@example.com",
		PasswordHash: "$argon2id$hashed",
	}
	expiresAt := time.Now().Add(time.Hour)

	userRepo.EXPECT().GetByEmail(ctx, "dev@example.com").Return(user, nil)
	hashSvc.EXPECT().Verify("Sup3rSecret!", user.PasswordHash).Return(true, nil)
	tokenSvc.EXPECT().Generate(user.ID, user.Email).Return("jwt-token", expiresAt, nil)

	result, err := svc.Login(ctx, "dev@example.com", "Sup3rSecret!")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, expiresAt, result.ExpiresAt)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, userRepo, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, nil)

	result, err := svc.Login(ctx, "nobody@example.com", "whatever")
	assert.Nil(t, result)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo, hashSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "dev@example.com", PasswordHash: "$argon2id$hashed"}

	userRepo.EXPECT().GetByEmail(ctx, "dev@example.com").Return(user, nil)
	hashSvc.EXPECT().Verify("wrong", user.PasswordHash).Return(false, nil)

	result, err := svc.Login(ctx, "dev@example.com", "wrong")
	assert.Nil(t, result)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_RepoError(t *testing.T) {
	svc, userRepo, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userRepo.EXPECT().GetByEmail(ctx, "dev@example.com").Return(nil, errors.New("connection reset"))

	result, err := svc.Login(ctx, "dev@example.com", "pw")
	assert.Nil(t, result)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
