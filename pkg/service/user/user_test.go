package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/pkg/config"
	userdomain "github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	usersvc "github.com/fintrack/fintrack/pkg/service/user"
	"github.com/fintrack/fintrack/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(uow *testutils.MemUoW) *usersvc.Service {
	cfg := &config.Auth{BcryptCost: 4}
	return usersvc.New(uow, cfg, testutils.NewLogger())
}

func createUser(t *testing.T, svc *usersvc.Service, username, email string, level int) *userdomain.User {
	t.Helper()
	u, err := svc.Create(context.Background(), usersvc.CreateInput{
		Username:  username,
		Email:     email,
		Password:  "secret-password",
		UserLevel: level,
	})
	require.NoError(t, err)
	return u
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	u := createUser(t, svc, "alice", "alice@example.com", 0)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, userdomain.BaseLevel, u.UserLevel,
		"level is clamped to the base level")
}

func TestCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	createUser(t, svc, "alice", "alice@example.com", 0)
	_, err := svc.Create(context.Background(), usersvc.CreateInput{
		Username: "impostor",
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, userdomain.ErrEmailExists)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, userdomain.ErrNotFound)
}

func TestUpdate_RehashesPassword(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newUserService(uow)
	u := createUser(t, svc, "alice", "alice@example.com", 0)

	before, err := uow.Users.Get(context.Background(), u.ID)
	require.NoError(t, err)

	newPassword := "another-password"
	_, err = svc.Update(context.Background(), u.ID, usersvc.UpdateInput{
		Password: &newPassword,
	})
	require.NoError(t, err)

	after, err := uow.Users.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.HashedPassword, after.HashedPassword)
	assert.NotEqual(t, newPassword, after.HashedPassword)
}

func TestUpdate_EmailConflict(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	createUser(t, svc, "alice", "alice@example.com", 0)
	bob := createUser(t, svc, "bob", "bob@example.com", 0)

	taken := "alice@example.com"
	_, err := svc.Update(context.Background(), bob.ID, usersvc.UpdateInput{
		Email: &taken,
	})
	assert.ErrorIs(t, err, userdomain.ErrEmailExists)
}

func TestUpdate_SameEmailAllowed(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	alice := createUser(t, svc, "alice", "alice@example.com", 0)

	same := "alice@example.com"
	newName := "alice-renamed"
	u, err := svc.Update(context.Background(), alice.ID, usersvc.UpdateInput{
		Email:    &same,
		Username: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", u.Username)
}

func TestSoftDelete_RevokesSessionsAndHidesUser(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := newUserService(uow)
	u := createUser(t, svc, "alice", "alice@example.com", 0)

	require.NoError(t, uow.Tokens.Create(context.Background(), &dto.RefreshTokenCreate{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: "deadbeef",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.Equal(t, 1, uow.Tokens.ActiveSessions(u.ID))

	require.NoError(t, svc.SoftDelete(context.Background(), u.ID))
	assert.Equal(t, 0, uow.Tokens.ActiveSessions(u.ID))

	_, err := svc.Get(context.Background(), u.ID)
	assert.ErrorIs(t, err, userdomain.ErrNotFound)

	// Deleting twice reports not found, the row is already hidden.
	err = svc.SoftDelete(context.Background(), u.ID)
	assert.ErrorIs(t, err, userdomain.ErrNotFound)
}

func TestUpgrade_RaisesLevel(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	u := createUser(t, svc, "alice", "alice@example.com", 10)

	upgraded, err := svc.Upgrade(context.Background(), u.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, upgraded.UserLevel)
	assert.False(t, upgraded.IsAdmin())

	admin, err := svc.Upgrade(context.Background(), u.ID, userdomain.AdminLevel)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestUpgrade_MustBeStrictlyHigher(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	u := createUser(t, svc, "alice", "alice@example.com", 10)

	_, err := svc.Upgrade(context.Background(), u.ID, 10)
	assert.ErrorIs(t, err, userdomain.ErrLevelNotHigher)

	_, err = svc.Upgrade(context.Background(), u.ID, 5)
	assert.ErrorIs(t, err, userdomain.ErrLevelNotHigher)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	createUser(t, svc, "alice", "alice@example.com", 10)
	createUser(t, svc, "bob", "bob@example.com", 20)
	createUser(t, svc, "carol", "carol@example.com", 99)

	page, err := svc.List(context.Background(), &dto.UserListFilter{}, query.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.TotalPages)

	min := 20
	filtered, err := svc.List(context.Background(),
		&dto.UserListFilter{MinUserLevel: &min}, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), filtered.Total)

	search, err := svc.List(context.Background(),
		&dto.UserListFilter{Search: "ali"}, query.Params{})
	require.NoError(t, err)
	require.Equal(t, int64(1), search.Total)
	assert.Equal(t, "alice", search.Data[0].Username)
}

func TestList_RejectsUnknownSortField(t *testing.T) {
	t.Parallel()
	svc := newUserService(testutils.NewMemUoW())
	_, err := svc.List(context.Background(), &dto.UserListFilter{},
		query.Params{SortBy: "hashedPassword"})
	assert.ErrorIs(t, err, query.ErrInvalidQuery)
}
