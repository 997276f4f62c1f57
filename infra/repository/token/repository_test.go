package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	tokenrepo "github.com/fintrack/fintrack/infra/repository/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRevokeIfActive_Performed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := tokenrepo.New(db)

	mock.ExpectExec(`UPDATE "refresh_tokens" SET`).
		WithArgs(true, "somehash", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	performed, err := repo.RevokeIfActive(context.Background(), "somehash")
	require.NoError(t, err)
	assert.True(t, performed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeIfActive_AlreadyRevoked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := tokenrepo.New(db)

	// The conditional update matches no row when another rotation got there
	// first.
	mock.ExpectExec(`UPDATE "refresh_tokens" SET`).
		WithArgs(true, "somehash", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	performed, err := repo.RevokeIfActive(context.Background(), "somehash")
	require.NoError(t, err)
	assert.False(t, performed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByHash_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := tokenrepo.New(db)

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).
		WithArgs("unknown", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	stored, err := repo.GetByHash(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByHash_ResolvesDeletedOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := tokenrepo.New(db)

	tokenID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).
		WithArgs("somehash", 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "token_hash", "expires_at", "is_revoked", "created_at",
		}).AddRow(tokenID, userID, "somehash", now.Add(time.Hour), false, now))

	// The owner row comes back even though it is soft-deleted.
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password", "user_level", "is_deleted",
			"created_at", "updated_at",
		}).AddRow(userID, "alice", "alice@example.com", "$2a$12$hash", 0, true, now, now))

	stored, err := repo.GetByHash(context.Background(), "somehash")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.User)
	assert.True(t, stored.User.IsDeleted)
	assert.False(t, stored.IsRevoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := tokenrepo.New(db)

	userID := uuid.New()
	mock.ExpectExec(`UPDATE "refresh_tokens" SET`).
		WithArgs(true, userID, false).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
