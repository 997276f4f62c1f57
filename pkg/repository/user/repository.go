package user

import (
	"context"

	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	"github.com/google/uuid"
)

// Repository defines user data access. Get, GetByEmail and List exclude
// soft-deleted rows.
type Repository interface {
	// Create inserts a new user record from a DTO.
	Create(ctx context.Context, create *dto.UserCreate) error

	// Get retrieves a non-deleted user by id, or nil when absent.
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)

	// GetByEmail retrieves a non-deleted user by email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*dto.UserRead, error)

	// Update patches the non-nil fields of update on the user row.
	Update(ctx context.Context, id uuid.UUID, update *dto.UserUpdate) error

	// SoftDelete flags the row deleted and stamps deleted_at. The row is
	// never removed.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns one page of non-deleted users matching the filter plus
	// the total match count ignoring pagination.
	List(ctx context.Context, filter *dto.UserListFilter, p query.Params) ([]*dto.UserRead, int64, error)

	// ExistsByEmail reports whether a non-deleted user holds the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
