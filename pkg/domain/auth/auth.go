// Package auth holds the error taxonomy shared by the token service and the
// authentication flow. Every refresh-token verification failure collapses to
// ErrInvalidToken so callers cannot probe which check rejected them.
package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password to avoid user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers bad signature, malformed payload, unknown,
	// revoked and reused refresh tokens alike.
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrTokenExpired is returned when the stored refresh-token row has
	// passed its expiry.
	ErrTokenExpired = errors.New("refresh token expired")
	// ErrUnauthenticated is returned when no verified identity is attached
	// to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when an authenticated identity fails a role
	// or ownership gate.
	ErrForbidden = errors.New("forbidden")
)
