package token

import (
	"context"
	"errors"

	"github.com/fintrack/fintrack/infra/repository/model"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	tokenrepo "github.com/fintrack/fintrack/pkg/repository/token"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a gorm-backed refresh-token repository.
func New(db *gorm.DB) tokenrepo.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.RefreshTokenCreate,
) error {
	row := &model.RefreshToken{
		ID:         create.ID,
		UserID:     create.UserID,
		TokenHash:  create.TokenHash,
		ExpiresAt:  create.ExpiresAt,
		DeviceInfo: create.DeviceInfo,
		IPAddress:  create.IPAddress,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) GetByHash(
	ctx context.Context,
	tokenHash string,
) (*dto.RefreshTokenRead, error) {
	var row model.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// The owner is loaded regardless of its soft-delete flag: rotation must
	// see that the user is gone and reject the token.
	var owner model.User
	err = r.db.WithContext(ctx).
		Where("id = ?", row.UserID).
		First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &dto.RefreshTokenRead{
		ID:         row.ID,
		UserID:     row.UserID,
		TokenHash:  row.TokenHash,
		ExpiresAt:  row.ExpiresAt,
		IsRevoked:  row.IsRevoked,
		DeviceInfo: row.DeviceInfo,
		IPAddress:  row.IPAddress,
		CreatedAt:  row.CreatedAt,
		User: &dto.UserRead{
			ID:             owner.ID,
			Username:       owner.Username,
			Email:          owner.Email,
			HashedPassword: owner.Password,
			UserLevel:      owner.UserLevel,
			Avatar:         owner.Avatar,
			Gender:         user.Gender(owner.Gender),
			DateOfBirth:    owner.DateOfBirth,
			CreatedAt:      owner.CreatedAt,
			UpdatedAt:      owner.UpdatedAt,
			IsDeleted:      owner.IsDeleted,
		},
	}, nil
}

func (r *repository) RevokeIfActive(
	ctx context.Context,
	tokenHash string,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", tokenHash, false).
		Update("is_revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) RevokeByHash(
	ctx context.Context,
	tokenHash string,
) error {
	return r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("is_revoked", true).Error
}

func (r *repository) RevokeAllForUser(
	ctx context.Context,
	userID uuid.UUID,
) error {
	return r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

var _ tokenrepo.Repository = (*repository)(nil)
