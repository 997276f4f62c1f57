package transaction_test

import (
	"context"
	"testing"
	"time"

	txdomain "github.com/fintrack/fintrack/pkg/domain/transaction"
	userdomain "github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	txsvc "github.com/fintrack/fintrack/pkg/service/transaction"
	"github.com/fintrack/fintrack/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIdentity(t *testing.T, uow *testutils.MemUoW, username string, level int) userdomain.Identity {
	t.Helper()
	id := uuid.New()
	err := uow.Users.Create(context.Background(), &dto.UserCreate{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Password:  "$2a$12$hash",
		UserLevel: level,
	})
	require.NoError(t, err)
	return userdomain.Identity{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Level:    level,
	}
}

func createInput(ownerID uuid.UUID) txsvc.CreateInput {
	return txsvc.CreateInput{
		Type:            txdomain.TypeSpend,
		Amount:          42.50,
		Currency:        "usd",
		TransactionDate: time.Now(),
		Description:     "groceries",
		UserID:          ownerID,
	}
}

func TestCreate_OwnTransaction(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)

	tx, err := svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, tx.UserID)
	assert.Equal(t, "USD", tx.Currency, "currency is stored upper-case")
	assert.Equal(t, txdomain.TypeSpend, tx.Type)
}

func TestCreate_ForOtherUserRequiresAdmin(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)
	bob := seedIdentity(t, uow, "bob", 0)
	admin := seedIdentity(t, uow, "root", userdomain.AdminLevel)

	_, err := svc.Create(context.Background(), alice, createInput(bob.ID))
	assert.ErrorIs(t, err, txdomain.ErrNotOwner)

	tx, err := svc.Create(context.Background(), admin, createInput(bob.ID))
	require.NoError(t, err)
	assert.Equal(t, bob.ID, tx.UserID)
}

func TestCreate_UnknownOwnerRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	admin := seedIdentity(t, uow, "root", userdomain.AdminLevel)

	_, err := svc.Create(context.Background(), admin, createInput(uuid.New()))
	assert.ErrorIs(t, err, txdomain.ErrUserNotFound)
}

func TestCreate_UnknownCategoryRejected(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)

	input := createInput(alice.ID)
	input.CategoryIDs = []uuid.UUID{uuid.New()}
	_, err := svc.Create(context.Background(), alice, input)
	assert.ErrorIs(t, err, txdomain.ErrCategoryNotFound)
}

func TestCreate_WithCategories(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)

	food := uuid.New()
	uow.Transactions.SeedCategory(food, "food")

	input := createInput(alice.ID)
	input.CategoryIDs = []uuid.UUID{food}
	tx, err := svc.Create(context.Background(), alice, input)
	require.NoError(t, err)
	require.Len(t, tx.Categories, 1)
	assert.Equal(t, "food", tx.Categories[0].Name)
}

func TestList_NonAdminScopedToOwnRows(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)
	bob := seedIdentity(t, uow, "bob", 0)
	admin := seedIdentity(t, uow, "root", userdomain.AdminLevel)

	_, err := svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, createInput(bob.ID))
	require.NoError(t, err)

	own, err := svc.List(context.Background(), alice,
		&dto.TransactionListFilter{}, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), own.Total)
	for _, tx := range own.Data {
		assert.Equal(t, alice.ID, tx.UserID)
	}

	// A non-admin asking for someone else's rows gets nothing instead of a
	// widened scope.
	sneaky, err := svc.List(context.Background(), alice,
		&dto.TransactionListFilter{UserID: &bob.ID}, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), sneaky.Total)

	all, err := svc.List(context.Background(), admin,
		&dto.TransactionListFilter{}, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	bobOnly, err := svc.List(context.Background(), admin,
		&dto.TransactionListFilter{UserID: &bob.ID}, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobOnly.Total)
}

func TestUpdate_ReplacesCategoriesWholesale(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)

	food := uuid.New()
	travel := uuid.New()
	uow.Transactions.SeedCategory(food, "food")
	uow.Transactions.SeedCategory(travel, "travel")

	input := createInput(alice.ID)
	input.CategoryIDs = []uuid.UUID{food}
	tx, err := svc.Create(context.Background(), alice, input)
	require.NoError(t, err)

	newCats := []uuid.UUID{travel}
	updated, err := svc.Update(context.Background(), alice, tx.ID, txsvc.UpdateInput{
		CategoryIDs: &newCats,
	})
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "travel", updated.Categories[0].Name)

	empty := []uuid.UUID{}
	cleared, err := svc.Update(context.Background(), alice, tx.ID, txsvc.UpdateInput{
		CategoryIDs: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Categories)
}

func TestUpdate_NonAdminCannotReassignOwner(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)
	bob := seedIdentity(t, uow, "bob", 0)
	admin := seedIdentity(t, uow, "root", userdomain.AdminLevel)

	tx, err := svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), alice, tx.ID, txsvc.UpdateInput{
		UserID: &bob.ID,
	})
	assert.ErrorIs(t, err, txdomain.ErrNotOwner)

	moved, err := svc.Update(context.Background(), admin, tx.ID, txsvc.UpdateInput{
		UserID: &bob.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, moved.UserID)
}

func TestSoftDelete_HidesTransaction(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)

	tx, err := svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), tx.ID))
	_, err = svc.Get(context.Background(), tx.ID)
	assert.ErrorIs(t, err, txdomain.ErrNotFound)

	err = svc.SoftDelete(context.Background(), tx.ID)
	assert.ErrorIs(t, err, txdomain.ErrNotFound)
}

func TestAuthorize_DistinguishesMissingFromForeign(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)
	bob := seedIdentity(t, uow, "bob", 0)
	admin := seedIdentity(t, uow, "root", userdomain.AdminLevel)

	tx, err := svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)

	assert.NoError(t, svc.Authorize(context.Background(), alice, tx.ID))
	assert.NoError(t, svc.Authorize(context.Background(), admin, tx.ID))

	err = svc.Authorize(context.Background(), bob, tx.ID)
	assert.ErrorIs(t, err, txdomain.ErrNotOwner)

	err = svc.Authorize(context.Background(), bob, uuid.New())
	assert.ErrorIs(t, err, txdomain.ErrNotFound)
}

func TestAuthorize_SoftDeletedLooksMissingToEveryone(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemUoW()
	svc := txsvc.New(uow, testutils.NewLogger())
	alice := seedIdentity(t, uow, "alice", 0)
	bob := seedIdentity(t, uow, "bob", 0)

	tx, err := svc.Create(context.Background(), alice, createInput(alice.ID))
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), tx.ID))

	// A deleted transaction answers not-found for owner and stranger
	// alike, never not-owner.
	err = svc.Authorize(context.Background(), alice, tx.ID)
	assert.ErrorIs(t, err, txdomain.ErrNotFound)
	err = svc.Authorize(context.Background(), bob, tx.ID)
	assert.ErrorIs(t, err, txdomain.ErrNotFound)
}
