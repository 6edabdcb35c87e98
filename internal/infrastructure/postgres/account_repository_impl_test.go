package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

// A malformed id never reaches the pool, so a nil pool is enough here.
func TestAccountRepository_MalformedIDIsNotFound(t *testing.T) {
	repo := NewAccountRepository(nil)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-a-uuid")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = repo.Save(ctx, &entity.Account{ID: "42", Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
}
