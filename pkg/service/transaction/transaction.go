// Package transaction implements the transaction resource operations with
// ownership enforcement.
package transaction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrack/fintrack/pkg/domain/transaction"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	"github.com/fintrack/fintrack/pkg/repository"
	"github.com/google/uuid"
)

// CreateInput carries the fields of a new transaction request.
type CreateInput struct {
	Type            transaction.Type
	Amount          float64
	Currency        string
	TransactionDate time.Time
	Description     string
	UserID          uuid.UUID
	CategoryIDs     []uuid.UUID
}

// UpdateInput is a partial update; nil fields are left untouched. UserID
// and CategoryIDs replace the corresponding links wholesale.
type UpdateInput struct {
	Type            *transaction.Type
	Amount          *float64
	Currency        *string
	TransactionDate *time.Time
	Description     *string
	UserID          *uuid.UUID
	CategoryIDs     *[]uuid.UUID
}

// Service implements the transaction resource operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create inserts a transaction for the given owner. Non-admin callers may
// only create transactions for themselves.
func (s *Service) Create(
	ctx context.Context,
	caller user.Identity,
	input CreateInput,
) (tx *transaction.Transaction, err error) {
	log := s.logger.With("context", "Create", "userID", input.UserID)
	log.Debug("Create called")

	if !caller.IsAdmin() && !caller.Owns(input.UserID) {
		log.Warn("Create rejected", "error", transaction.ErrNotOwner)
		return nil, transaction.ErrNotOwner
	}

	var created *dto.TransactionRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		owner, err := users.Get(ctx, input.UserID)
		if err != nil {
			return err
		}
		if owner == nil {
			return transaction.ErrUserNotFound
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if len(input.CategoryIDs) > 0 {
			ok, err := repo.CategoriesExist(ctx, input.CategoryIDs)
			if err != nil {
				return err
			}
			if !ok {
				return transaction.ErrCategoryNotFound
			}
		}
		create := &dto.TransactionCreate{
			ID:              uuid.New(),
			Type:            input.Type,
			Amount:          input.Amount,
			Currency:        strings.ToUpper(input.Currency),
			TransactionDate: input.TransactionDate,
			Description:     input.Description,
			UserID:          input.UserID,
			CategoryIDs:     input.CategoryIDs,
		}
		if err := repo.Create(ctx, create); err != nil {
			return err
		}
		created, err = repo.Get(ctx, create.ID)
		return err
	})
	if err != nil {
		log.Warn("Create rejected", "error", err)
		return nil, err
	}
	log.Info("Create successful", "transactionID", created.ID)
	return created.Domain(), nil
}

// Get retrieves a transaction by id.
func (s *Service) Get(
	ctx context.Context,
	id uuid.UUID,
) (tx *transaction.Transaction, err error) {
	log := s.logger.With("context", "Get", "transactionID", id)
	log.Debug("Get called")

	var found *dto.TransactionRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		found, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("Get failed", "error", err)
		return nil, err
	}
	if found == nil {
		return nil, transaction.ErrNotFound
	}
	return found.Domain(), nil
}

// List returns one page of transactions matching the filter. For non-admin
// callers the result is forced to the caller's own transactions no matter
// what the filter asks for.
func (s *Service) List(
	ctx context.Context,
	caller user.Identity,
	filter *dto.TransactionListFilter,
	p query.Params,
) (page query.Paginated[*transaction.Transaction], err error) {
	log := s.logger.With("context", "List", "callerID", caller.ID)
	log.Debug("List called", "page", p.Page, "limit", p.Limit)

	p = p.Normalize(dto.TransactionDefaultSort)
	if err = p.Validate(dto.TransactionSortFields); err != nil {
		log.Warn("List rejected", "error", err)
		return page, err
	}
	if !caller.IsAdmin() {
		id := caller.ID
		filter.ScopeUserID = &id
	}
	filter.Currency = strings.ToUpper(filter.Currency)

	var (
		rows  []*dto.TransactionRead
		total int64
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		rows, total, err = repo.List(ctx, filter, p)
		return err
	})
	if err != nil {
		log.Error("List failed", "error", err)
		return page, err
	}

	txs := make([]*transaction.Transaction, len(rows))
	for i, r := range rows {
		txs[i] = r.Domain()
	}
	return query.NewPaginated(txs, total, p.Page, p.Limit), nil
}

// Update patches a transaction. Supplying UserID re-links the owner,
// supplying CategoryIDs replaces every category link. Non-admin callers
// cannot re-link a transaction to another user.
func (s *Service) Update(
	ctx context.Context,
	caller user.Identity,
	id uuid.UUID,
	input UpdateInput,
) (tx *transaction.Transaction, err error) {
	log := s.logger.With("context", "Update", "transactionID", id)
	log.Debug("Update called")

	if input.UserID != nil && !caller.IsAdmin() && !caller.Owns(*input.UserID) {
		log.Warn("Update rejected", "error", transaction.ErrNotOwner)
		return nil, transaction.ErrNotOwner
	}

	update := &dto.TransactionUpdate{
		Type:            input.Type,
		Amount:          input.Amount,
		TransactionDate: input.TransactionDate,
		Description:     input.Description,
	}
	if input.Currency != nil {
		c := strings.ToUpper(*input.Currency)
		update.Currency = &c
	}

	var updated *dto.TransactionRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return transaction.ErrNotFound
		}
		if input.UserID != nil {
			users, err := uow.UserRepository()
			if err != nil {
				return err
			}
			owner, err := users.Get(ctx, *input.UserID)
			if err != nil {
				return err
			}
			if owner == nil {
				return transaction.ErrUserNotFound
			}
		}
		if input.CategoryIDs != nil && len(*input.CategoryIDs) > 0 {
			ok, err := repo.CategoriesExist(ctx, *input.CategoryIDs)
			if err != nil {
				return err
			}
			if !ok {
				return transaction.ErrCategoryNotFound
			}
		}
		if err := repo.Update(ctx, id, update); err != nil {
			return err
		}
		if input.UserID != nil {
			if err := repo.ReplaceOwner(ctx, id, *input.UserID); err != nil {
				return err
			}
		}
		if input.CategoryIDs != nil {
			if err := repo.ReplaceCategories(ctx, id, *input.CategoryIDs); err != nil {
				return err
			}
		}
		updated, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Warn("Update rejected", "error", err)
		return nil, err
	}
	log.Info("Update successful", "transactionID", id)
	return updated.Domain(), nil
}

// SoftDelete flags a transaction deleted.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "SoftDelete", "transactionID", id)
	log.Debug("SoftDelete called")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return transaction.ErrNotFound
		}
		return repo.SoftDelete(ctx, id)
	})
	if err != nil {
		log.Warn("SoftDelete rejected", "error", err)
		return err
	}
	log.Info("SoftDelete successful", "transactionID", id)
	return nil
}

// Authorize decides whether the caller may touch the transaction. A missing
// row maps to ErrNotFound, a row owned by someone else to ErrNotOwner, so
// callers can tell the two apart. Admins pass unconditionally once the row
// is known to exist.
func (s *Service) Authorize(
	ctx context.Context,
	caller user.Identity,
	id uuid.UUID,
) error {
	log := s.logger.With(
		"context", "Authorize", "callerID", caller.ID, "transactionID", id)
	log.Debug("Authorize called")

	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return transaction.ErrNotFound
		}
		if caller.IsAdmin() {
			return nil
		}
		owned, err := repo.IsOwnedBy(ctx, id, caller.ID)
		if err != nil {
			return err
		}
		if !owned {
			log.Warn("Authorize rejected", "error", transaction.ErrNotOwner)
			return transaction.ErrNotOwner
		}
		return nil
	})
}
