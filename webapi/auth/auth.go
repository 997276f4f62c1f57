package auth

import (
	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/middleware"
	authsvc "github.com/fintrack/fintrack/pkg/service/auth"
	tokensvc "github.com/fintrack/fintrack/pkg/service/token"
	"github.com/fintrack/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(
	app *fiber.App,
	authSvc *authsvc.Service,
	tokenSvc *tokensvc.Service,
	cfg *config.App,
) {
	app.Post("/auth/register", Register(authSvc))
	app.Post("/auth/login", Login(authSvc))
	app.Post("/auth/refresh", Refresh(tokenSvc))
	app.Post("/auth/logout",
		middleware.JwtProtected(cfg.Auth.Jwt),
		middleware.LoadIdentity(authSvc),
		Logout(authSvc))
	app.Get("/auth/profile",
		middleware.JwtProtected(cfg.Auth.Jwt),
		middleware.LoadIdentity(authSvc),
		GetProfile(authSvc))
}

func session(c *fiber.Ctx) tokensvc.Session {
	return tokensvc.Session{
		DeviceInfo: c.Get(fiber.HeaderUserAgent),
		IPAddress:  c.IP(),
	}
}

// Register creates an account and signs the user in.
// @Summary Register a new account
// @Description Create an account and return the user with a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Registration data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 409 {object} common.ErrorBody
// @Failure 429 {object} common.ErrorBody
// @Failure 500 {object} common.ErrorBody
// @Router /auth/register [post]
func Register(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err // error response already written
		}
		u, pair, err := authSvc.Register(c.Context(), authsvc.RegisterInput{
			Username:    input.Username,
			Email:       input.Email,
			Password:    input.Password,
			Avatar:      input.Avatar,
			Gender:      user.Gender(input.Gender),
			DateOfBirth: input.DateOfBirth,
		}, session(c))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Registered",
			fiber.Map{"user": u, "tokens": pair})
	}
}

// Login authenticates with email and password.
// @Summary Sign in
// @Description Authenticate with email and password and return a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 429 {object} common.ErrorBody
// @Failure 500 {object} common.ErrorBody
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // error response already written
		}
		u, pair, err := authSvc.Login(
			c.Context(), input.Email, input.Password, session(c))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login",
			fiber.Map{"user": u, "tokens": pair})
	}
}

// Refresh rotates a refresh token into a new pair.
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new pair; the presented token is revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshInput true "Refresh token"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 429 {object} common.ErrorBody
// @Failure 500 {object} common.ErrorBody
// @Router /auth/refresh [post]
func Refresh(tokenSvc *tokensvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RefreshInput](c)
		if input == nil {
			return err // error response already written
		}
		pair, err := tokenSvc.Rotate(c.Context(), input.RefreshToken, session(c))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Tokens refreshed", pair)
	}
}

// Logout revokes the presented refresh token.
// @Summary Sign out
// @Description Revoke the presented refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshInput true "Refresh token"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 500 {object} common.ErrorBody
// @Router /auth/logout [post]
// @Security Bearer
func Logout(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RefreshInput](c)
		if input == nil {
			return err // error response already written
		}
		if err := authSvc.Logout(c.Context(), input.RefreshToken); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logged out", nil)
	}
}

// GetProfile returns the authenticated user.
// @Summary Current user profile
// @Description Return the account behind the bearer token
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Failure 500 {object} common.ErrorBody
// @Router /auth/profile [get]
// @Security Bearer
func GetProfile(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		u, err := authSvc.GetProfile(c.Context(), identity.ID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile", u)
	}
}
