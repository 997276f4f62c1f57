package transaction

import (
	"context"

	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	"github.com/google/uuid"
)

// Repository defines transaction data access including the owner and
// category join links. Get and List exclude soft-deleted rows.
type Repository interface {
	// Create inserts the transaction row, its owner link and its category
	// links.
	Create(ctx context.Context, create *dto.TransactionCreate) error

	// Get retrieves a non-deleted transaction with associations resolved,
	// or nil when absent.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// Update patches the non-nil scalar fields of update.
	Update(ctx context.Context, id uuid.UUID, update *dto.TransactionUpdate) error

	// ReplaceOwner deletes every owner link of the transaction and
	// recreates a single link to userID.
	ReplaceOwner(ctx context.Context, id, userID uuid.UUID) error

	// ReplaceCategories deletes every category link of the transaction and
	// recreates links for categoryIDs.
	ReplaceCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error

	// SoftDelete flags the row deleted and stamps deleted_at.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns one page of non-deleted transactions matching the
	// filter plus the total match count ignoring pagination.
	List(ctx context.Context, filter *dto.TransactionListFilter, p query.Params) ([]*dto.TransactionRead, int64, error)

	// Exists reports whether the transaction row exists at all, deleted or
	// not. The ownership gate uses it to pick between 404 and 403.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// IsOwnedBy reports whether an owner link binds userID to the
	// transaction.
	IsOwnedBy(ctx context.Context, id, userID uuid.UUID) (bool, error)

	// CategoriesExist reports whether every id in categoryIDs references
	// an existing category.
	CategoriesExist(ctx context.Context, categoryIDs []uuid.UUID) (bool, error)
}
