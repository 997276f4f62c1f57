package transaction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fintrack/fintrack/infra/repository/model"
	"github.com/fintrack/fintrack/pkg/domain/transaction"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	transactionrepo "github.com/fintrack/fintrack/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a gorm-backed transaction repository.
func New(db *gorm.DB) transactionrepo.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.TransactionCreate,
) error {
	row := &model.Transaction{
		ID:              create.ID,
		Type:            string(create.Type),
		Amount:          create.Amount,
		Currency:        create.Currency,
		TransactionDate: create.TransactionDate,
		Description:     create.Description,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	link := &model.UserTransaction{
		ID:            uuid.New(),
		UserID:        create.UserID,
		TransactionID: create.ID,
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return err
	}
	return r.createCategoryLinks(ctx, create.ID, create.CategoryIDs)
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	var row model.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.resolve(ctx, &row)
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update *dto.TransactionUpdate,
) error {
	updates := make(map[string]interface{})
	if update.Type != nil {
		updates["type"] = string(*update.Type)
	}
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.Currency != nil {
		updates["currency"] = *update.Currency
	}
	if update.TransactionDate != nil {
		updates["transaction_date"] = *update.TransactionDate
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ReplaceOwner(
	ctx context.Context,
	id, userID uuid.UUID,
) error {
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", id).
		Delete(&model.UserTransaction{}).Error
	if err != nil {
		return err
	}
	link := &model.UserTransaction{
		ID:            uuid.New(),
		UserID:        userID,
		TransactionID: id,
	}
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) ReplaceCategories(
	ctx context.Context,
	id uuid.UUID,
	categoryIDs []uuid.UUID,
) error {
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", id).
		Delete(&model.TransactionCategory{}).Error
	if err != nil {
		return err
	}
	return r.createCategoryLinks(ctx, id, categoryIDs)
}

func (r *repository) SoftDelete(
	ctx context.Context,
	id uuid.UUID,
) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
		}).Error
}

func (r *repository) List(
	ctx context.Context,
	filter *dto.TransactionListFilter,
	p query.Params,
) ([]*dto.TransactionRead, int64, error) {
	base := func() *gorm.DB {
		return r.applyFilter(r.db.WithContext(ctx).Model(&model.Transaction{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Transaction
	err := base().
		Order(transactionSortColumns[p.SortBy] + " " + p.SortOrder).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.TransactionRead, 0, len(rows))
	for i := range rows {
		read, err := r.resolve(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		result = append(result, read)
	}
	return result, total, nil
}

func (r *repository) Exists(
	ctx context.Context,
	id uuid.UUID,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) IsOwnedBy(
	ctx context.Context,
	id, userID uuid.UUID,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserTransaction{}).
		Where("transaction_id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CategoriesExist(
	ctx context.Context,
	categoryIDs []uuid.UUID,
) (bool, error) {
	if len(categoryIDs) == 0 {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id IN ?", categoryIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(categoryIDs)), nil
}

func (r *repository) createCategoryLinks(
	ctx context.Context,
	id uuid.UUID,
	categoryIDs []uuid.UUID,
) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.TransactionCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, model.TransactionCategory{
			ID:            uuid.New(),
			TransactionID: id,
			CategoryID:    categoryID,
		})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// resolve loads the owner link and category associations of a row.
func (r *repository) resolve(
	ctx context.Context,
	row *model.Transaction,
) (*dto.TransactionRead, error) {
	var link model.UserTransaction
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", row.ID).
		First(&link).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var categories []model.Category
	err = r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id IN (?)", r.db.Model(&model.TransactionCategory{}).
			Select("category_id").
			Where("transaction_id = ?", row.ID)).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	tags := make([]transaction.Category, 0, len(categories))
	for _, c := range categories {
		tags = append(tags, transaction.Category{ID: c.ID, Name: c.Name})
	}

	return &dto.TransactionRead{
		ID:              row.ID,
		Type:            transaction.Type(row.Type),
		Amount:          row.Amount,
		Currency:        row.Currency,
		TransactionDate: row.TransactionDate,
		Description:     row.Description,
		UserID:          link.UserID,
		Categories:      tags,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		IsDeleted:       row.IsDeleted,
	}, nil
}

// transactionSortColumns maps the API sort fields to their columns. Keys
// mirror dto.TransactionSortFields.
var transactionSortColumns = map[string]string{
	"type":            "type",
	"amount":          "amount",
	"currency":        "currency",
	"transactionDate": "transaction_date",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
}

// applyFilter translates the structured filter into WHERE clauses. Owner and
// category constraints go through subqueries on the join tables so pagination
// counts stay row-accurate. ScopeUserID is ANDed last: a caller-supplied
// UserID filter can narrow it but never widen it.
func (r *repository) applyFilter(db *gorm.DB, filter *dto.TransactionListFilter) *gorm.DB {
	db = db.Where("is_deleted = ?", false)
	if filter == nil {
		return db
	}
	if filter.Type != "" {
		db = db.Where("type = ?", string(filter.Type))
	}
	if filter.Currency != "" {
		db = db.Where("currency = ?", filter.Currency)
	}
	if filter.MinAmount != nil {
		db = db.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		db = db.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.Description != "" {
		db = db.Where("description ILIKE ?", contains(filter.Description))
	}
	if filter.UserID != nil {
		db = db.Where("id IN (?)", r.ownedBySubquery(*filter.UserID))
	}
	if len(filter.CategoryIDs) > 0 {
		db = db.Where("id IN (?)", r.db.Model(&model.TransactionCategory{}).
			Select("transaction_id").
			Where("category_id IN ?", filter.CategoryIDs))
	}
	if filter.TransactionDateAfter != nil {
		db = db.Where("transaction_date >= ?", *filter.TransactionDateAfter)
	}
	if filter.TransactionDateBefore != nil {
		db = db.Where("transaction_date <= ?", *filter.TransactionDateBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.Search != "" {
		db = db.Where("description ILIKE ?", contains(filter.Search))
	}
	if filter.ScopeUserID != nil {
		db = db.Where("id IN (?)", r.ownedBySubquery(*filter.ScopeUserID))
	}
	return db
}

func (r *repository) ownedBySubquery(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.UserTransaction{}).
		Select("transaction_id").
		Where("user_id = ?", userID)
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

var _ transactionrepo.Repository = (*repository)(nil)
