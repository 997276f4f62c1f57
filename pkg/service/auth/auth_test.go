package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/pkg/config"
	authdomain "github.com/fintrack/fintrack/pkg/domain/auth"
	userdomain "github.com/fintrack/fintrack/pkg/domain/user"
	authsvc "github.com/fintrack/fintrack/pkg/service/auth"
	tokensvc "github.com/fintrack/fintrack/pkg/service/token"
	"github.com/fintrack/fintrack/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(uow *testutils.MemUoW) *authsvc.Service {
	cfg := &config.Auth{
		Jwt: &config.Jwt{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		BcryptCost: 4, // keep the tests fast
	}
	logger := testutils.NewLogger()
	tokens := tokensvc.New(uow, cfg.Jwt, logger)
	return authsvc.New(uow, tokens, cfg, logger)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	u, pair, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotNil(t, pair)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, userdomain.BaseLevel, u.UserLevel)
	assert.Empty(t, u.Password)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	stored, err := uow.Users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret-password", stored.HashedPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	_, _, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "impostor",
		Email:    "alice@example.com",
		Password: "another-password",
	}, tokensvc.Session{})
	assert.ErrorIs(t, err, userdomain.ErrEmailExists)
}

func TestRegister_DeletedEmailReusable(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	first, _, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)
	require.NoError(t, uow.Users.SoftDelete(context.Background(), first.ID))

	second, _, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice-again",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	_, _, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)

	u, pair, err := svc.Login(
		context.Background(), "alice@example.com", "secret-password", tokensvc.Session{})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	_, _, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)

	_, _, err = svc.Login(
		context.Background(), "alice@example.com", "wrong-password", tokensvc.Session{})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	_, _, err := svc.Login(
		context.Background(), "nobody@example.com", "whatever", tokensvc.Session{})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLogout_RevokesSession(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	u, pair, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)
	require.Equal(t, 1, uow.Tokens.ActiveSessions(u.ID))

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	assert.Equal(t, 0, uow.Tokens.ActiveSessions(u.ID))
}

func TestIdentity_DeletedUserUnauthenticated(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newAuthService(uow)

	u, _, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	}, tokensvc.Session{})
	require.NoError(t, err)

	identity, err := svc.Identity(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.ID)
	assert.False(t, identity.IsAdmin())

	require.NoError(t, uow.Users.SoftDelete(context.Background(), u.ID))
	_, err = svc.Identity(context.Background(), u.ID)
	assert.ErrorIs(t, err, authdomain.ErrUnauthenticated)
}

func TestIdentity_UnknownSubject(t *testing.T) {
	t.Parallel()
	svc := newAuthService(testutils.NewMemUoW())
	_, err := svc.Identity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, authdomain.ErrUnauthenticated)
}
