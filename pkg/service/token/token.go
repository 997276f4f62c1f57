// Package token issues, rotates and revokes JWT credential pairs. Refresh
// tokens are tracked server-side by a SHA-256 hash so sessions can be
// revoked without ever storing the raw token.
package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/domain/auth"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service implements the token lifecycle: issue, rotate, revoke.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
	now    func() time.Time
}

func New(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger, now: time.Now}
}

// HashToken returns the hex SHA-256 of a raw refresh token, the form in
// which tokens are persisted and looked up.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Session captures where a pair was requested from, for audit on the
// stored refresh-token row.
type Session struct {
	DeviceInfo string
	IPAddress  string
}

// IssuePair signs a fresh access/refresh pair for the user and persists
// the refresh-token session.
func (s *Service) IssuePair(
	ctx context.Context,
	u *dto.UserRead,
	sess Session,
) (pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "IssuePair", "userID", u.ID)
	log.Debug("IssuePair called")

	issuedAt := s.now()
	access, err := s.signAccess(u, issuedAt)
	if err != nil {
		log.Error("IssuePair failed", "error", err)
		return nil, err
	}
	tokenID := uuid.New()
	refresh, err := s.signRefresh(u, tokenID, issuedAt)
	if err != nil {
		log.Error("IssuePair failed", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TokenRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, &dto.RefreshTokenCreate{
			ID:         tokenID,
			UserID:     u.ID,
			TokenHash:  HashToken(refresh),
			ExpiresAt:  issuedAt.Add(s.cfg.RefreshExpiry),
			DeviceInfo: sess.DeviceInfo,
			IPAddress:  sess.IPAddress,
		})
	})
	if err != nil {
		log.Error("IssuePair failed", "error", err)
		return nil, err
	}
	log.Info("IssuePair successful")
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate exchanges a valid refresh token for a new pair and revokes the
// presented token. Revocation is conditional: if another request already
// consumed the token, rotation fails instead of minting a second pair.
func (s *Service) Rotate(
	ctx context.Context,
	rawRefresh string,
	sess Session,
) (pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "Rotate")
	log.Debug("Rotate called")

	if _, err = s.parseRefresh(rawRefresh); err != nil {
		log.Warn("Rotate rejected", "error", err)
		return nil, err
	}
	hash := HashToken(rawRefresh)

	var owner *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TokenRepository()
		if err != nil {
			return err
		}
		stored, err := repo.GetByHash(ctx, hash)
		if err != nil {
			return err
		}
		if stored == nil || stored.IsRevoked {
			return auth.ErrInvalidToken
		}
		if stored.User == nil || stored.User.IsDeleted {
			return auth.ErrInvalidToken
		}
		if s.now().After(stored.ExpiresAt) {
			return auth.ErrTokenExpired
		}
		performed, err := repo.RevokeIfActive(ctx, hash)
		if err != nil {
			return err
		}
		if !performed {
			// Lost the race against a concurrent rotation.
			return auth.ErrInvalidToken
		}
		owner = stored.User
		return nil
	})
	if err != nil {
		log.Warn("Rotate rejected", "error", err)
		return nil, err
	}

	pair, err = s.IssuePair(ctx, owner, sess)
	if err != nil {
		log.Error("Rotate failed", "error", err)
		return nil, err
	}
	log.Info("Rotate successful", "userID", owner.ID)
	return pair, nil
}

// Revoke ends the session behind a refresh token. Unknown and already
// revoked tokens are ignored so logout stays idempotent.
func (s *Service) Revoke(ctx context.Context, rawRefresh string) error {
	log := s.logger.With("context", "Revoke")
	log.Debug("Revoke called")
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TokenRepository()
		if err != nil {
			return err
		}
		return repo.RevokeByHash(ctx, HashToken(rawRefresh))
	})
}

// RevokeAllForUser ends every session of the user, used when an account
// is deactivated.
func (s *Service) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	log := s.logger.With("context", "RevokeAllForUser", "userID", userID)
	log.Debug("RevokeAllForUser called")
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TokenRepository()
		if err != nil {
			return err
		}
		return repo.RevokeAllForUser(ctx, userID)
	})
}

func (s *Service) signAccess(u *dto.UserRead, issuedAt time.Time) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = u.ID.String()
	claims["email"] = u.Email
	claims["username"] = u.Username
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = issuedAt.Add(s.cfg.AccessExpiry).Unix()
	return token.SignedString([]byte(s.cfg.AccessSecret))
}

func (s *Service) signRefresh(
	u *dto.UserRead,
	tokenID uuid.UUID,
	issuedAt time.Time,
) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = u.ID.String()
	claims["email"] = u.Email
	claims["username"] = u.Username
	claims["tokenId"] = tokenID.String()
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = issuedAt.Add(s.cfg.RefreshExpiry).Unix()
	return token.SignedString([]byte(s.cfg.RefreshSecret))
}

// parseRefresh verifies the refresh token's signature and expiry before
// the stored session is consulted.
func (s *Service) parseRefresh(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(
		raw,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, auth.ErrInvalidToken
			}
			return []byte(s.cfg.RefreshSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	// Every verification failure collapses to the same error, embedded
	// expiry included; only the stored row's expiry is reported as
	// expired.
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}
