package auth

import "time"

// RegisterInput represents the request body for creating an account.
type RegisterInput struct {
	Username    string     `json:"username" validate:"required,min=3,max=50"`
	Email       string     `json:"email" validate:"required,email,max=100"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	Avatar      string     `json:"avatar" validate:"omitempty,max=255"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=M F OTHER"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

// LoginInput represents the request body for signing in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the refresh token being exchanged or revoked.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
