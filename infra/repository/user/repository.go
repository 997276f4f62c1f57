package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fintrack/fintrack/infra/repository/model"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	userrepo "github.com/fintrack/fintrack/pkg/repository/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a gorm-backed user repository.
func New(db *gorm.DB) userrepo.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.UserCreate,
) error {
	row := &model.User{
		ID:          create.ID,
		Username:    create.Username,
		Email:       create.Email,
		Password:    create.Password,
		UserLevel:   create.UserLevel,
		Avatar:      create.Avatar,
		Gender:      string(create.Gender),
		DateOfBirth: create.DateOfBirth,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.UserRead, error) {
	var row model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&row), nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*dto.UserRead, error) {
	var row model.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&row), nil
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update *dto.UserUpdate,
) error {
	updates := make(map[string]interface{})
	if update.Username != nil {
		updates["username"] = *update.Username
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Password != nil {
		updates["password"] = *update.Password
	}
	if update.UserLevel != nil {
		updates["user_level"] = *update.UserLevel
	}
	if update.Avatar != nil {
		updates["avatar"] = *update.Avatar
	}
	if update.Gender != nil {
		updates["gender"] = string(*update.Gender)
	}
	if update.DateOfBirth != nil {
		updates["date_of_birth"] = *update.DateOfBirth
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) SoftDelete(
	ctx context.Context,
	id uuid.UUID,
) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
		}).Error
}

func (r *repository) List(
	ctx context.Context,
	filter *dto.UserListFilter,
	p query.Params,
) ([]*dto.UserRead, int64, error) {
	base := func() *gorm.DB {
		return r.applyFilter(r.db.WithContext(ctx).Model(&model.User{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.User
	err := base().
		Order(userSortColumns[p.SortBy] + " " + p.SortOrder).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.UserRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDTO(&rows[i]))
	}
	return result, total, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND is_deleted = ?", email, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// userSortColumns maps the API sort fields to their columns. Keys mirror
// dto.UserSortFields.
var userSortColumns = map[string]string{
	"createdAt":   "created_at",
	"username":    "username",
	"email":       "email",
	"userLevel":   "user_level",
	"dateOfBirth": "date_of_birth",
}

// applyFilter translates the structured filter into WHERE clauses.
// Soft-deleted rows are always excluded; substring filters are
// case-insensitive; the search term OR-combines over username and email on
// top of the field filters.
func (r *repository) applyFilter(db *gorm.DB, filter *dto.UserListFilter) *gorm.DB {
	db = db.Where("is_deleted = ?", false)
	if filter == nil {
		return db
	}
	if filter.Username != "" {
		db = db.Where("username ILIKE ?", contains(filter.Username))
	}
	if filter.Email != "" {
		db = db.Where("email ILIKE ?", contains(filter.Email))
	}
	if filter.Gender != "" {
		db = db.Where("gender = ?", string(filter.Gender))
	}
	if filter.UserLevel != nil {
		db = db.Where("user_level = ?", *filter.UserLevel)
	} else {
		if filter.MinUserLevel != nil {
			db = db.Where("user_level >= ?", *filter.MinUserLevel)
		}
		if filter.MaxUserLevel != nil {
			db = db.Where("user_level <= ?", *filter.MaxUserLevel)
		}
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.BornAfter != nil {
		db = db.Where("date_of_birth >= ?", *filter.BornAfter)
	}
	if filter.BornBefore != nil {
		db = db.Where("date_of_birth <= ?", *filter.BornBefore)
	}
	if filter.Search != "" {
		pattern := contains(filter.Search)
		db = db.Where(
			r.db.Session(&gorm.Session{NewDB: true}).
				Where("username ILIKE ?", pattern).
				Or("email ILIKE ?", pattern),
		)
	}
	return db
}

// contains builds an ILIKE substring pattern; wildcard characters in the
// term are matched literally.
func contains(term string) string {
	return "%" + escapeLike(term) + "%"
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

func mapModelToDTO(row *model.User) *dto.UserRead {
	return &dto.UserRead{
		ID:             row.ID,
		Username:       row.Username,
		Email:          row.Email,
		HashedPassword: row.Password,
		UserLevel:      row.UserLevel,
		Avatar:         row.Avatar,
		Gender:         user.Gender(row.Gender),
		DateOfBirth:    row.DateOfBirth,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		IsDeleted:      row.IsDeleted,
	}
}

var _ userrepo.Repository = (*repository)(nil)
