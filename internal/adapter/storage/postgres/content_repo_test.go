package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hookharbor/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContentRepo(mock)
	updatedAt := time.Now().UTC().Truncate(time.Microsecond)
	payload := json.RawMessage(`{"title":"About us"}`)

	rows := pgxmock.NewRows([]string{"kind", "payload", "updated_at"}).
		AddRow(domain.ContentKindAbout, payload, updatedAt)
	mock.ExpectQuery("SELECT .+ FROM contents WHERE kind").
		WithArgs(domain.ContentKindAbout).
		WillReturnRows(rows)

	result, err := repo.Get(context.Background(), domain.ContentKindAbout)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.ContentKindAbout, result.Kind)
	assert.JSONEq(t, `{"title":"About us"}`, string(result.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContentRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM contents WHERE kind").
		WithArgs(domain.ContentKindBanner).
		WillReturnRows(pgxmock.NewRows([]string{"kind", "payload", "updated_at"}))

	result, err := repo.Get(context.Background(), domain.ContentKindBanner)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContentRepo(mock)
	c := &domain.Content{
		Kind:      domain.ContentKindContact,
		Payload:   json.RawMessage(`{"email":"hello@example.com"}`),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO contents .+ ON CONFLICT").
		WithArgs(c.Kind, c.Payload, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Upsert(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
