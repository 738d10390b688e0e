package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long", time.Hour, "hookharbor")
	userID := uuid.New()

	token, expiresAt, err := svc.Generate(userID, "dev@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "dev@example.com", claims.Email)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	issuer := NewJWTTokenService("secret-one-aaaaaaaaaaaaaaaaaaaaaaa", time.Hour, "hookharbor")
	verifier := NewJWTTokenService("secret-two-bbbbbbbbbbbbbbbbbbbbbbb", time.Hour, "hookharbor")

	token, _, err := issuer.Generate(uuid.New(), "dev@example.com")
	require.NoError(t, err)

	claims, err := verifier.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long", -time.Minute, "hookharbor")

	token, _, err := svc.Generate(uuid.New(), "dev@example.com")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long", time.Hour, "hookharbor")

	claims, err := svc.Validate("not.a.jwt")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
