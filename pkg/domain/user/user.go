package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BaseLevel is the level every account starts at; AdminLevel is the
// threshold granting unrestricted access.
const (
	BaseLevel  = 1
	AdminLevel = 99
)

var (
	// ErrNotFound is returned when a user cannot be found or is soft-deleted.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists is returned when registering with an email already
	// taken by a non-deleted user.
	ErrEmailExists = errors.New("user with this email already exists")
	// ErrLevelNotHigher is returned when an upgrade does not strictly raise
	// the user level.
	ErrLevelNotHigher = errors.New("user level must be higher than current level")
)

// Gender enumerates the accepted gender values.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "OTHER"
)

// Valid reports whether g is one of the accepted gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User represents a user account. Password carries the bcrypt hash and is
// never serialized.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Password    string     `json:"-"`
	UserLevel   int        `json:"userLevel"`
	Avatar      string     `json:"avatar,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user clears the admin threshold.
func (u *User) IsAdmin() bool {
	return u.UserLevel >= AdminLevel
}

// Identity is the authenticated principal attached to a request after the
// bearer token has been verified and the subject re-validated against the
// store. Authorization gates are predicates over this value.
type Identity struct {
	ID       uuid.UUID
	Username string
	Email    string
	Level    int
}

// IsAdmin reports whether the identity clears the admin threshold.
func (id Identity) IsAdmin() bool {
	return id.Level >= AdminLevel
}

// Owns reports whether the identity owns the given user resource.
func (id Identity) Owns(userID uuid.UUID) bool {
	return id.ID == userID
}
