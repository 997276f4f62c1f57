// Package webapi provides HTTP handlers and API endpoints for the personal
// finance tracker. It is organized into sub-packages per resource:
// - auth: registration, login and token endpoints
// - user: user management endpoints
// - transaction: transaction and category-tagging endpoints
// - health: liveness endpoint
package webapi

import (
	"errors"
	"strings"

	"github.com/fintrack/fintrack/pkg/app"
	authweb "github.com/fintrack/fintrack/webapi/auth"
	"github.com/fintrack/fintrack/webapi/common"
	healthweb "github.com/fintrack/fintrack/webapi/health"
	transactionweb "github.com/fintrack/fintrack/webapi/transaction"
	userweb "github.com/fintrack/fintrack/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gofiber/swagger"
)

// SetupApp initializes Fiber with custom configuration.
func SetupApp(app *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseJSON(c, fe.Code, fe.Message)
			}
			return common.DomainErrorJSON(c, err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Rate limiting keyed by client IP. Uses X-Forwarded-For when behind a
	// proxy, falling back to X-Real-IP or the direct IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        app.Config.RateLimit.MaxRequests,
		Expiration: app.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(
				c, fiber.StatusTooManyRequests, "rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	healthweb.Routes(fiberApp, app.Deps.DB)
	authweb.Routes(fiberApp, app.AuthService, app.TokenService, app.Config)
	userweb.Routes(fiberApp, app.UserService, app.AuthService, app.Config)
	transactionweb.Routes(fiberApp, app.TransactionService, app.AuthService, app.Config)
	return fiberApp
}
