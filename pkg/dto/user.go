package dto

import (
	"time"

	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/google/uuid"
)

// UserCreate represents the data needed to persist a new user. Password
// carries the bcrypt hash, never the plain text.
type UserCreate struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Password    string
	UserLevel   int
	Avatar      string
	Gender      user.Gender
	DateOfBirth *time.Time
}

// UserUpdate represents a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username    *string
	Email       *string
	Password    *string
	UserLevel   *int
	Avatar      *string
	Gender      *user.Gender
	DateOfBirth *time.Time
}

// UserRead is the read-optimized view of a user row, including the
// bookkeeping fields services need. Handlers convert it to the public
// projection before serializing.
type UserRead struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	UserLevel      int
	Avatar         string
	Gender         user.Gender
	DateOfBirth    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	IsDeleted      bool
}

// Public strips the password hash and soft-delete bookkeeping from the row.
func (u *UserRead) Public() *user.User {
	return &user.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		UserLevel:   u.UserLevel,
		Avatar:      u.Avatar,
		Gender:      u.Gender,
		DateOfBirth: u.DateOfBirth,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// UserSortFields is the sort allow-list for user list queries.
var UserSortFields = []string{"createdAt", "username", "email", "userLevel", "dateOfBirth"}

// UserDefaultSort is the natural sort column for user list queries.
const UserDefaultSort = "createdAt"

// UserListFilter is the structured filter a user list query is built from.
// Zero values mean "no constraint". Search is OR-combined over username and
// email, independent of the field-specific filters.
type UserListFilter struct {
	Username      string
	Email         string
	Gender        user.Gender
	UserLevel     *int
	MinUserLevel  *int
	MaxUserLevel  *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	BornAfter     *time.Time
	BornBefore    *time.Time
	Search        string
}
