// Package middleware provides the JWT guard and the authorization gates
// applied to protected routes.
package middleware

import (
	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/user"
	authsvc "github.com/fintrack/fintrack/pkg/service/auth"
	transactionsvc "github.com/fintrack/fintrack/pkg/service/transaction"
	"github.com/fintrack/fintrack/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const identityKey = "identity"

// JwtProtected verifies the bearer token signature and expiry and stores
// the parsed token under c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.AccessSecret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return common.ErrorResponseJSON(
			c, fiber.StatusBadRequest, "missing or malformed token")
	}
	return common.ErrorResponseJSON(
		c, fiber.StatusUnauthorized, "invalid or expired token")
}

// LoadIdentity resolves the token subject against the store and attaches
// the principal to the request. Tokens of deleted accounts stop here even
// though their signature still verifies.
func LoadIdentity(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "invalid token claims")
		}
		sub, ok := claims["sub"].(string)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "invalid token claims")
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "invalid token claims")
		}
		identity, err := authSvc.Identity(c.Context(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Identity returns the principal LoadIdentity attached to the request.
func Identity(c *fiber.Ctx) (user.Identity, bool) {
	identity, ok := c.Locals(identityKey).(user.Identity)
	return identity, ok
}

// RequireAdmin rejects callers below the admin level.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		if !identity.IsAdmin() {
			return common.ErrorResponseJSON(
				c, fiber.StatusForbidden, "admin privileges required")
		}
		return c.Next()
	}
}

// RequireSelfOrAdmin rejects callers touching a user resource that is not
// their own, unless they are admin. The target id is read from the named
// route parameter.
func RequireSelfOrAdmin(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		id, err := uuid.Parse(c.Params(param))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		if !identity.IsAdmin() && !identity.Owns(id) {
			return common.ErrorResponseJSON(
				c, fiber.StatusForbidden, "you can only manage your own account")
		}
		return c.Next()
	}
}

// RequireTransactionAccess rejects callers touching a transaction they do
// not own, unless they are admin. A transaction that does not exist at all
// yields 404 rather than 403, so the two cases stay distinguishable.
func RequireTransactionAccess(
	txSvc *transactionsvc.Service,
	param string,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		id, err := uuid.Parse(c.Params(param))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		if err := txSvc.Authorize(c.Context(), identity, id); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return c.Next()
	}
}
