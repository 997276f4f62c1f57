package dto

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair is the access/refresh credential pair returned by the token
// service.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenCreate represents a new refresh-token session row. TokenHash is
// the hex SHA-256 of the raw token; the raw token is never persisted.
type RefreshTokenCreate struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	DeviceInfo string
	IPAddress  string
}

// RefreshTokenRead is the stored refresh-token session with its owning user
// resolved, as needed by rotation checks.
type RefreshTokenRead struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	IsRevoked  bool
	DeviceInfo string
	IPAddress  string
	CreatedAt  time.Time
	User       *UserRead
}
