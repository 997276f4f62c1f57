package user

import (
	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/middleware"
	authsvc "github.com/fintrack/fintrack/pkg/service/auth"
	usersvc "github.com/fintrack/fintrack/pkg/service/user"
	"github.com/fintrack/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)
	identity := middleware.LoadIdentity(authSvc)
	admin := middleware.RequireAdmin()
	selfOrAdmin := middleware.RequireSelfOrAdmin("id")

	app.Post("/users", jwt, identity, admin, CreateUser(userSvc))
	app.Get("/users", jwt, identity, admin, ListUsers(userSvc))
	app.Get("/users/me/profile", jwt, identity, GetMe(userSvc))
	app.Patch("/users/me/profile", jwt, identity, UpdateMe(userSvc))
	app.Get("/users/:id", jwt, identity, selfOrAdmin, GetUser(userSvc))
	app.Patch("/users/:id", jwt, identity, selfOrAdmin, UpdateUser(userSvc))
	app.Delete("/users/:id", jwt, identity, selfOrAdmin, DeleteUser(userSvc))
	app.Patch("/users/:id/upgrade", jwt, identity, admin, UpgradeUser(userSvc))
}

// CreateUser creates a user on behalf of an administrator.
// @Summary Create a user
// @Description Create a user account, optionally with an elevated level
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserInput true "User data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 409 {object} common.ErrorBody
// @Router /users [post]
// @Security Bearer
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateUserInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.Create(c.Context(), usersvc.CreateInput{
			Username:    input.Username,
			Email:       input.Email,
			Password:    input.Password,
			UserLevel:   input.UserLevel,
			Avatar:      input.Avatar,
			Gender:      user.Gender(input.Gender),
			DateOfBirth: input.DateOfBirth,
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", u)
	}
}

// ListUsers returns one page of users matching the query filters.
// @Summary List users
// @Description List users with filtering, sorting and pagination
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Param username query string false "Username contains"
// @Param email query string false "Email contains"
// @Param gender query string false "Gender equals"
// @Param userLevel query int false "Level equals"
// @Param minUserLevel query int false "Level at least"
// @Param maxUserLevel query int false "Level at most"
// @Param search query string false "Matches username or email"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Router /users [get]
// @Security Bearer
func ListUsers(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := parseListFilter(c)
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, err.Error())
		}
		page, err := userSvc.List(c.Context(), filter, common.ParseParams(c))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users", page)
	}
}

func parseListFilter(c *fiber.Ctx) (*dto.UserListFilter, error) {
	filter := &dto.UserListFilter{
		Username: c.Query("username"),
		Email:    c.Query("email"),
		Gender:   user.Gender(c.Query("gender")),
		Search:   c.Query("search"),
	}
	var err error
	if filter.UserLevel, err = common.QueryIntPtr(c, "userLevel"); err != nil {
		return nil, err
	}
	if filter.MinUserLevel, err = common.QueryIntPtr(c, "minUserLevel"); err != nil {
		return nil, err
	}
	if filter.MaxUserLevel, err = common.QueryIntPtr(c, "maxUserLevel"); err != nil {
		return nil, err
	}
	if filter.CreatedAfter, err = common.QueryTime(c, "createdAfter"); err != nil {
		return nil, err
	}
	if filter.CreatedBefore, err = common.QueryTime(c, "createdBefore"); err != nil {
		return nil, err
	}
	if filter.BornAfter, err = common.QueryTime(c, "bornAfter"); err != nil {
		return nil, err
	}
	if filter.BornBefore, err = common.QueryTime(c, "bornBefore"); err != nil {
		return nil, err
	}
	return filter, nil
}

// GetMe returns the caller's own account.
// @Summary Own account
// @Description Return the account behind the bearer token
// @Tags users
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ErrorBody
// @Router /users/me/profile [get]
// @Security Bearer
func GetMe(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		u, err := userSvc.Get(c.Context(), identity.ID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// updateInput maps a bound request body onto the service's partial update.
func updateInput(input *UpdateUserInput) usersvc.UpdateInput {
	update := usersvc.UpdateInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		Avatar:      input.Avatar,
		DateOfBirth: input.DateOfBirth,
	}
	if input.Gender != nil {
		g := user.Gender(*input.Gender)
		update.Gender = &g
	}
	return update
}

// UpdateMe patches the caller's own account.
// @Summary Update own account
// @Description Update the account behind the bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserInput true "User update data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 409 {object} common.ErrorBody
// @Router /users/me/profile [patch]
// @Security Bearer
func UpdateMe(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		input, err := common.BindAndValidate[UpdateUserInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.Update(c.Context(), identity.ID, updateInput(input))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User updated", u)
	}
}

// GetUser retrieves a user by id.
// @Summary Get user by ID
// @Description Retrieve a user by their ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Router /users/{id} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		u, err := userSvc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// UpdateUser patches a user.
// @Summary Update user
// @Description Update user information by ID
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserInput true "User update data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Failure 409 {object} common.ErrorBody
// @Router /users/{id} [patch]
// @Security Bearer
func UpdateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateUserInput](c)
		if input == nil {
			return err // error response already written
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		u, err := userSvc.Update(c.Context(), id, updateInput(input))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User updated", u)
	}
}

// DeleteUser deactivates a user account.
// @Summary Delete user
// @Description Soft-delete a user account by ID and revoke its sessions
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Router /users/{id} [delete]
// @Security Bearer
func DeleteUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		if err := userSvc.SoftDelete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UpgradeUser raises a user level.
// @Summary Upgrade user level
// @Description Raise a user's level; the new level must be strictly higher
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpgradeInput true "Target level"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Failure 409 {object} common.ErrorBody
// @Router /users/{id}/upgrade [patch]
// @Security Bearer
func UpgradeUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpgradeInput](c)
		if input == nil {
			return err // error response already written
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		u, err := userSvc.Upgrade(c.Context(), id, input.UserLevel)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User upgraded", u)
	}
}
