// Package auth implements registration, login and session handling on top
// of the token service.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/auth"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/repository"
	"github.com/fintrack/fintrack/pkg/service/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown, so login takes
// the same time whether or not the account exists.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// RegisterInput carries the fields of a new account request. Password is
// the plain text; it is hashed before it reaches the store.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Avatar      string
	Gender      user.Gender
	DateOfBirth *time.Time
}

// Service implements the authentication flows.
type Service struct {
	uow    repository.UnitOfWork
	tokens *token.Service
	cfg    *config.Auth
	logger *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	tokens *token.Service,
	cfg *config.Auth,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, tokens: tokens, cfg: cfg, logger: logger}
}

// Register creates an account and signs the user in. The email must not be
// held by any non-deleted user.
func (s *Service) Register(
	ctx context.Context,
	input RegisterInput,
	sess token.Session,
) (u *user.User, pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "Register", "email", input.Email)
	log.Debug("Register called")

	hashed, err := bcrypt.GenerateFromPassword(
		[]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, nil, err
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
			UserLevel:   user.BaseLevel,
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
		log.Warn("Register rejected", "error", err)
		return nil, nil, err
	}

	pair, err = s.tokens.IssuePair(ctx, created, sess)
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, nil, err
	}
	log.Info("Register successful", "userID", created.ID)
	return created.Public(), pair, nil
}

// Login verifies the credentials and issues a pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
	sess token.Session,
) (u *user.User, pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "Login", "email", email)
	log.Debug("Login called")

	var found *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		found, err = repo.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		log.Error("Login failed", "error", err)
		return nil, nil, err
	}
	if found == nil {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		log.Warn("Login rejected", "error", auth.ErrInvalidCredentials)
		return nil, nil, auth.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(
		[]byte(found.HashedPassword), []byte(password)) != nil {
		log.Warn("Login rejected", "error", auth.ErrInvalidCredentials)
		return nil, nil, auth.ErrInvalidCredentials
	}

	pair, err = s.tokens.IssuePair(ctx, found, sess)
	if err != nil {
		log.Error("Login failed", "error", err)
		return nil, nil, err
	}
	log.Info("Login successful", "userID", found.ID)
	return found.Public(), pair, nil
}

// Logout revokes the presented refresh token. It never reveals whether the
// token was valid.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	log := s.logger.With("context", "Logout")
	log.Debug("Logout called")
	if err := s.tokens.Revoke(ctx, rawRefresh); err != nil {
		log.Error("Logout failed", "error", err)
		return err
	}
	log.Info("Logout successful")
	return nil
}

// Identity re-validates a token subject against the store and returns the
// principal attached to the request. A missing or soft-deleted subject
// leaves the request unauthenticated even when the token verifies.
func (s *Service) Identity(
	ctx context.Context,
	userID uuid.UUID,
) (id user.Identity, err error) {
	log := s.logger.With("context", "Identity", "userID", userID)
	log.Debug("Identity called")

	var found *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		found, err = repo.Get(ctx, userID)
		return err
	})
	if err != nil {
		log.Error("Identity failed", "error", err)
		return user.Identity{}, err
	}
	if found == nil {
		log.Warn("Identity rejected", "error", auth.ErrUnauthenticated)
		return user.Identity{}, auth.ErrUnauthenticated
	}
	return user.Identity{
		ID:       found.ID,
		Username: found.Username,
		Email:    found.Email,
		Level:    found.UserLevel,
	}, nil
}

// GetProfile returns the public view of the authenticated user.
func (s *Service) GetProfile(
	ctx context.Context,
	userID uuid.UUID,
) (u *user.User, err error) {
	log := s.logger.With("context", "GetProfile", "userID", userID)
	log.Debug("GetProfile called")

	var found *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		found, err = repo.Get(ctx, userID)
		return err
	})
	if err != nil {
		log.Error("GetProfile failed", "error", err)
		return nil, err
	}
	if found == nil {
		return nil, user.ErrNotFound
	}
	return found.Public(), nil
}
