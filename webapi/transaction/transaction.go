package transaction

import (
	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/transaction"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/middleware"
	authsvc "github.com/fintrack/fintrack/pkg/service/auth"
	transactionsvc "github.com/fintrack/fintrack/pkg/service/transaction"
	"github.com/fintrack/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(
	app *fiber.App,
	txSvc *transactionsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)
	identity := middleware.LoadIdentity(authSvc)
	access := middleware.RequireTransactionAccess(txSvc, "id")

	app.Post("/transactions", jwt, identity, CreateTransaction(txSvc))
	app.Get("/transactions", jwt, identity, ListTransactions(txSvc))
	app.Get("/transactions/me/transactions", jwt, identity, ListOwnTransactions(txSvc))
	app.Post("/transactions/me/transactions", jwt, identity, CreateTransaction(txSvc))
	app.Get("/transactions/:id", jwt, identity, access, GetTransaction(txSvc))
	app.Patch("/transactions/:id", jwt, identity, access, UpdateTransaction(txSvc))
	app.Delete("/transactions/:id", jwt, identity, access, DeleteTransaction(txSvc))
}

// CreateTransaction records a transaction.
// @Summary Create a transaction
// @Description Record a transaction for the caller, or for another user when admin
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionInput true "Transaction data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Router /transactions [post]
// @Security Bearer
func CreateTransaction(txSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		input, err := common.BindAndValidate[CreateTransactionInput](c)
		if input == nil {
			return err // error response already written
		}
		ownerID := identity.ID
		if input.UserID != nil {
			ownerID = *input.UserID
		}
		tx, err := txSvc.Create(c.Context(), identity, transactionsvc.CreateInput{
			Type:            transaction.Type(input.Type),
			Amount:          input.Amount,
			Currency:        input.Currency,
			TransactionDate: input.TransactionDate,
			Description:     input.Description,
			UserID:          ownerID,
			CategoryIDs:     input.CategoryIDs,
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusCreated, "Created transaction", tx)
	}
}

// ListTransactions returns one page of transactions matching the query
// filters. Non-admin callers only ever see their own.
// @Summary List transactions
// @Description List transactions with filtering, sorting and pagination
// @Tags transactions
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Param type query string false "SPEND or INCOME"
// @Param currency query string false "Currency equals"
// @Param minAmount query number false "Amount at least"
// @Param maxAmount query number false "Amount at most"
// @Param description query string false "Description contains"
// @Param userId query string false "Owner equals (admin only has effect)"
// @Param categoryIds query string false "Comma-separated category IDs"
// @Param search query string false "Matches description"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Router /transactions [get]
// @Security Bearer
func ListTransactions(txSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		filter, err := parseListFilter(c)
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, err.Error())
		}
		page, err := txSvc.List(c.Context(), identity, filter, common.ParseParams(c))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", page)
	}
}

// ListOwnTransactions lists the caller's transactions regardless of level.
// @Summary List own transactions
// @Description List the caller's transactions with filtering, sorting and pagination
// @Tags transactions
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Router /transactions/me/transactions [get]
// @Security Bearer
func ListOwnTransactions(txSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		filter, err := parseListFilter(c)
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, err.Error())
		}
		id := identity.ID
		filter.ScopeUserID = &id
		page, err := txSvc.List(c.Context(), identity, filter, common.ParseParams(c))
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", page)
	}
}

func parseListFilter(c *fiber.Ctx) (*dto.TransactionListFilter, error) {
	filter := &dto.TransactionListFilter{
		Type:        transaction.Type(c.Query("type")),
		Currency:    c.Query("currency"),
		Description: c.Query("description"),
		Search:      c.Query("search"),
	}
	var err error
	if filter.MinAmount, err = common.QueryFloatPtr(c, "minAmount"); err != nil {
		return nil, err
	}
	if filter.MaxAmount, err = common.QueryFloatPtr(c, "maxAmount"); err != nil {
		return nil, err
	}
	if filter.UserID, err = common.QueryUUIDPtr(c, "userId"); err != nil {
		return nil, err
	}
	if filter.CategoryIDs, err = common.QueryUUIDs(c, "categoryIds"); err != nil {
		return nil, err
	}
	if filter.TransactionDateAfter, err = common.QueryTime(c, "transactionDateAfter"); err != nil {
		return nil, err
	}
	if filter.TransactionDateBefore, err = common.QueryTime(c, "transactionDateBefore"); err != nil {
		return nil, err
	}
	if filter.CreatedAfter, err = common.QueryTime(c, "createdAfter"); err != nil {
		return nil, err
	}
	if filter.CreatedBefore, err = common.QueryTime(c, "createdBefore"); err != nil {
		return nil, err
	}
	return filter, nil
}

// GetTransaction retrieves a transaction by id.
// @Summary Get transaction by ID
// @Description Retrieve a transaction with its categories
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Router /transactions/{id} [get]
// @Security Bearer
func GetTransaction(txSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		tx, err := txSvc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction found", tx)
	}
}

// UpdateTransaction patches a transaction.
// @Summary Update transaction
// @Description Update transaction fields; categoryIds replaces the tag set
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionInput true "Transaction update data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Router /transactions/{id} [patch]
// @Security Bearer
func UpdateTransaction(txSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "missing user context")
		}
		input, err := common.BindAndValidate[UpdateTransactionInput](c)
		if input == nil {
			return err // error response already written
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		update := transactionsvc.UpdateInput{
			Amount:          input.Amount,
			Currency:        input.Currency,
			TransactionDate: input.TransactionDate,
			Description:     input.Description,
			UserID:          input.UserID,
			CategoryIDs:     input.CategoryIDs,
		}
		if input.Type != nil {
			t := transaction.Type(*input.Type)
			update.Type = &t
		}
		tx, err := txSvc.Update(c.Context(), identity, id, update)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", tx)
	}
}

// DeleteTransaction flags a transaction deleted.
// @Summary Delete transaction
// @Description Soft-delete a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Failure 403 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Router /transactions/{id} [delete]
// @Security Bearer
func DeleteTransaction(txSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "id must be a valid UUID")
		}
		if err := txSvc.SoftDelete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
