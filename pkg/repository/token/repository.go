package token

import (
	"context"

	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines refresh-token session storage. Rows are only ever
// created and revoked, never removed; expiry is checked at validation time.
type Repository interface {
	// Create inserts a new refresh-token session row.
	Create(ctx context.Context, create *dto.RefreshTokenCreate) error

	// GetByHash retrieves the session with the given token hash and its
	// owning user, or nil when absent.
	GetByHash(ctx context.Context, tokenHash string) (*dto.RefreshTokenRead, error)

	// RevokeIfActive marks the session revoked only if it is not revoked
	// yet, in a single conditional update. It reports whether this call
	// performed the revocation, so concurrent rotations of the same token
	// cannot both succeed.
	RevokeIfActive(ctx context.Context, tokenHash string) (bool, error)

	// RevokeByHash marks every session with the hash revoked. Idempotent:
	// revoking an unknown or already-revoked token is not an error.
	RevokeByHash(ctx context.Context, tokenHash string) error

	// RevokeAllForUser marks every session of the user revoked.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}
