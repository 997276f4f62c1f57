package user

import "time"

// CreateUserInput represents the request body for an administrative user
// create.
type CreateUserInput struct {
	Username    string     `json:"username" validate:"required,min=3,max=50"`
	Email       string     `json:"email" validate:"required,email,max=100"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	UserLevel   int        `json:"userLevel" validate:"omitempty,min=1,max=100"`
	Avatar      string     `json:"avatar" validate:"omitempty,max=255"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=M F OTHER"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

// UpdateUserInput represents the request body for a partial user update.
// Absent fields are left untouched.
type UpdateUserInput struct {
	Username    *string    `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string    `json:"email" validate:"omitempty,email,max=100"`
	Password    *string    `json:"password" validate:"omitempty,min=8,max=72"`
	Avatar      *string    `json:"avatar" validate:"omitempty,max=255"`
	Gender      *string    `json:"gender" validate:"omitempty,oneof=M F OTHER"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

// UpgradeInput represents the request body for raising a user level.
type UpgradeInput struct {
	UserLevel int `json:"userLevel" validate:"required,min=1,max=100"`
}
