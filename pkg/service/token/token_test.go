package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/auth"
	"github.com/fintrack/fintrack/pkg/dto"
	tokensvc "github.com/fintrack/fintrack/pkg/service/token"
	"github.com/fintrack/fintrack/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJwtConfig() *config.Jwt {
	return &config.Jwt{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func seedUser(t *testing.T, uow *testutils.MemUoW) *dto.UserRead {
	t.Helper()
	id := uuid.New()
	err := uow.Users.Create(context.Background(), &dto.UserCreate{
		ID:       id,
		Username: "alice",
		Email:    "alice@example.com",
		Password: "$2a$12$hash",
	})
	require.NoError(t, err)
	u, err := uow.Users.Get(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestIssuePair_PersistsHashedSession(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{
		DeviceInfo: "cli-test",
		IPAddress:  "127.0.0.1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	stored, err := uow.Tokens.GetByHash(
		context.Background(), tokensvc.HashToken(pair.RefreshToken))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, u.ID, stored.UserID)
	assert.Equal(t, "cli-test", stored.DeviceInfo)
	assert.False(t, stored.IsRevoked)
	// The raw token must never be the stored lookup key.
	missing, err := uow.Tokens.GetByHash(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRotate_IssuesNewPairAndRevokesOld(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)

	rotated, err := svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	old, err := uow.Tokens.GetByHash(
		context.Background(), tokensvc.HashToken(pair.RefreshToken))
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.True(t, old.IsRevoked)
}

func TestRotate_ReplayedTokenRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)
	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	require.NoError(t, err)

	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRotate_EmbeddedExpiryCollapsesToInvalid(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	cfg := testJwtConfig()
	cfg.RefreshExpiry = -time.Hour
	svc := tokensvc.New(uow, cfg, testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)

	// An expired signature is indistinguishable from any other
	// verification failure.
	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRotate_StoredExpiryRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)
	uow.Tokens.ExpireSessions(u.ID)

	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestRotate_GarbageTokenRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())

	_, err := svc.Rotate(context.Background(), "not-a-jwt", tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRotate_WrongSignatureRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	otherCfg := testJwtConfig()
	otherCfg.RefreshSecret = "a-different-secret"
	other := tokensvc.New(testutils.NewMemUoW(), otherCfg, testutils.NewLogger())
	pair, err := other.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)

	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRotate_DeletedUserRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)
	require.NoError(t, uow.Users.SoftDelete(context.Background(), u.ID))

	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRevoke_Idempotent(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	pair, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), pair.RefreshToken))
	require.NoError(t, svc.Revoke(context.Background(), pair.RefreshToken))
	require.NoError(t, svc.Revoke(context.Background(), "unknown-token"))

	_, err = svc.Rotate(context.Background(), pair.RefreshToken, tokensvc.Session{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRevokeAllForUser(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := tokensvc.New(uow, testJwtConfig(), testutils.NewLogger())
	u := seedUser(t, uow)

	for i := 0; i < 3; i++ {
		_, err := svc.IssuePair(context.Background(), u, tokensvc.Session{})
		require.NoError(t, err)
	}
	require.Equal(t, 3, uow.Tokens.ActiveSessions(u.ID))

	require.NoError(t, svc.RevokeAllForUser(context.Background(), u.ID))
	assert.Equal(t, 0, uow.Tokens.ActiveSessions(u.ID))
}
