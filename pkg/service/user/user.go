// Package user implements the user resource operations.
package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	"github.com/fintrack/fintrack/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CreateInput carries the fields of an administrative create. Password is
// the plain text.
type CreateInput struct {
	Username    string
	Email       string
	Password    string
	UserLevel   int
	Avatar      string
	Gender      user.Gender
	DateOfBirth *time.Time
}

// UpdateInput is a partial update; nil fields are left untouched. Password
// is the plain text and is re-hashed before storage.
type UpdateInput struct {
	Username    *string
	Email       *string
	Password    *string
	UserLevel   *int
	Avatar      *string
	Gender      *user.Gender
	DateOfBirth *time.Time
}

// Service implements the user resource operations.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Auth
	logger *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	cfg *config.Auth,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Create inserts a new user on behalf of an administrator.
func (s *Service) Create(
	ctx context.Context,
	input CreateInput,
) (u *user.User, err error) {
	log := s.logger.With("context", "Create", "email", input.Email)
	log.Debug("Create called")

	if input.UserLevel < user.BaseLevel {
		input.UserLevel = user.BaseLevel
	}
	hashed, err := bcrypt.GenerateFromPassword(
		[]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		log.Error("Create failed", "error", err)
		return nil, err
	}

	var created *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		taken, err := repo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return err
		}
		if taken {
			return user.ErrEmailExists
		}
		create := &dto.UserCreate{
			ID:          uuid.New(),
			Username:    input.Username,
			Email:       input.Email,
			Password:    string(hashed),
			UserLevel:   input.UserLevel,
			Avatar:      input.Avatar,
			Gender:      input.Gender,
			DateOfBirth: input.DateOfBirth,
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
	log.Info("Create successful", "userID", created.ID)
	return created.Public(), nil
}

// Get retrieves a user by id.
func (s *Service) Get(
	ctx context.Context,
	id uuid.UUID,
) (u *user.User, err error) {
	log := s.logger.With("context", "Get", "userID", id)
	log.Debug("Get called")

	var found *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
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
		return nil, user.ErrNotFound
	}
	return found.Public(), nil
}

// List returns one page of users matching the filter.
func (s *Service) List(
	ctx context.Context,
	filter *dto.UserListFilter,
	p query.Params,
) (page query.Paginated[*user.User], err error) {
	log := s.logger.With("context", "List")
	log.Debug("List called", "page", p.Page, "limit", p.Limit)

	p = p.Normalize(dto.UserDefaultSort)
	if err = p.Validate(dto.UserSortFields); err != nil {
		log.Warn("List rejected", "error", err)
		return page, err
	}

	var (
		rows  []*dto.UserRead
		total int64
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
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

	users := make([]*user.User, len(rows))
	for i, r := range rows {
		users[i] = r.Public()
	}
	return query.NewPaginated(users, total, p.Page, p.Limit), nil
}

// Update patches a user. A new password is re-hashed, a new email must not
// collide with another non-deleted account.
func (s *Service) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateInput,
) (u *user.User, err error) {
	log := s.logger.With("context", "Update", "userID", id)
	log.Debug("Update called")

	update := &dto.UserUpdate{
		Username:    input.Username,
		Email:       input.Email,
		UserLevel:   input.UserLevel,
		Avatar:      input.Avatar,
		Gender:      input.Gender,
		DateOfBirth: input.DateOfBirth,
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword(
			[]byte(*input.Password), s.cfg.BcryptCost)
		if err != nil {
			log.Error("Update failed", "error", err)
			return nil, err
		}
		h := string(hashed)
		update.Password = &h
	}

	var updated *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return user.ErrNotFound
		}
		if input.Email != nil && *input.Email != current.Email {
			taken, err := repo.ExistsByEmail(ctx, *input.Email)
			if err != nil {
				return err
			}
			if taken {
				return user.ErrEmailExists
			}
		}
		if err := repo.Update(ctx, id, update); err != nil {
			return err
		}
		updated, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Warn("Update rejected", "error", err)
		return nil, err
	}
	log.Info("Update successful", "userID", id)
	return updated.Public(), nil
}

// SoftDelete deactivates a user and revokes every one of their sessions in
// the same transaction.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "SoftDelete", "userID", id)
	log.Debug("SoftDelete called")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		current, err := users.Get(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return user.ErrNotFound
		}
		if err := users.SoftDelete(ctx, id); err != nil {
			return err
		}
		tokens, err := uow.TokenRepository()
		if err != nil {
			return err
		}
		return tokens.RevokeAllForUser(ctx, id)
	})
	if err != nil {
		log.Warn("SoftDelete rejected", "error", err)
		return err
	}
	log.Info("SoftDelete successful", "userID", id)
	return nil
}

// Upgrade raises the user level. The new level must be strictly higher than
// the current one.
func (s *Service) Upgrade(
	ctx context.Context,
	id uuid.UUID,
	level int,
) (u *user.User, err error) {
	log := s.logger.With("context", "Upgrade", "userID", id, "level", level)
	log.Debug("Upgrade called")

	var updated *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return user.ErrNotFound
		}
		if level <= current.UserLevel {
			return user.ErrLevelNotHigher
		}
		update := &dto.UserUpdate{UserLevel: &level}
		if err := repo.Update(ctx, id, update); err != nil {
			return err
		}
		updated, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Warn("Upgrade rejected", "error", err)
		return nil, err
	}
	log.Info("Upgrade successful", "userID", id)
	return updated.Public(), nil
}
