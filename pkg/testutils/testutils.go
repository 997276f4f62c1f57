// Package testutils provides in-memory repository fixtures and HTTP helpers
// shared by the service and handler tests.
package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/fintrack/fintrack/pkg/domain/transaction"
	"github.com/fintrack/fintrack/pkg/dto"
	"github.com/fintrack/fintrack/pkg/query"
	"github.com/fintrack/fintrack/pkg/repository"
	tokenrepo "github.com/fintrack/fintrack/pkg/repository/token"
	transactionrepo "github.com/fintrack/fintrack/pkg/repository/transaction"
	userrepo "github.com/fintrack/fintrack/pkg/repository/user"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MakeRequest runs one request against a fiber app and returns the response.
func MakeRequest(
	app *fiber.App,
	method, path, body, token string,
) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}

// MemUoW is an in-memory UnitOfWork backed by map repositories. Do runs the
// callback against the same stores without transaction semantics.
type MemUoW struct {
	Users        *MemUserRepo
	Transactions *MemTransactionRepo
	Tokens       *MemTokenRepo
}

// NewMemUoW builds an empty in-memory store.
func NewMemUoW() *MemUoW {
	users := &MemUserRepo{rows: map[uuid.UUID]*dto.UserRead{}}
	return &MemUoW{
		Users: users,
		Transactions: &MemTransactionRepo{
			rows:       map[uuid.UUID]*dto.TransactionRead{},
			owners:     map[uuid.UUID]uuid.UUID{},
			categories: map[uuid.UUID][]uuid.UUID{},
			catNames:   map[uuid.UUID]string{},
		},
		Tokens: &MemTokenRepo{rows: map[string]*dto.RefreshTokenRead{}, users: users},
	}
}

func (u *MemUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *MemUoW) UserRepository() (userrepo.Repository, error) {
	return u.Users, nil
}

func (u *MemUoW) TransactionRepository() (transactionrepo.Repository, error) {
	return u.Transactions, nil
}

func (u *MemUoW) TokenRepository() (tokenrepo.Repository, error) {
	return u.Tokens, nil
}

// MemUserRepo is a map-backed user repository.
type MemUserRepo struct {
	rows  map[uuid.UUID]*dto.UserRead
	order []uuid.UUID
}

func (r *MemUserRepo) Create(ctx context.Context, create *dto.UserCreate) error {
	now := time.Now()
	r.rows[create.ID] = &dto.UserRead{
		ID:             create.ID,
		Username:       create.Username,
		Email:          create.Email,
		HashedPassword: create.Password,
		UserLevel:      create.UserLevel,
		Avatar:         create.Avatar,
		Gender:         create.Gender,
		DateOfBirth:    create.DateOfBirth,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.order = append(r.order, create.ID)
	return nil
}

func (r *MemUserRepo) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	row, ok := r.rows[id]
	if !ok || row.IsDeleted {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *MemUserRepo) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	for _, row := range r.rows {
		if row.Email == email && !row.IsDeleted {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemUserRepo) Update(ctx context.Context, id uuid.UUID, update *dto.UserUpdate) error {
	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	if update.Username != nil {
		row.Username = *update.Username
	}
	if update.Email != nil {
		row.Email = *update.Email
	}
	if update.Password != nil {
		row.HashedPassword = *update.Password
	}
	if update.UserLevel != nil {
		row.UserLevel = *update.UserLevel
	}
	if update.Avatar != nil {
		row.Avatar = *update.Avatar
	}
	if update.Gender != nil {
		row.Gender = *update.Gender
	}
	if update.DateOfBirth != nil {
		row.DateOfBirth = update.DateOfBirth
	}
	row.UpdatedAt = time.Now()
	return nil
}

func (r *MemUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if row, ok := r.rows[id]; ok {
		row.IsDeleted = true
	}
	return nil
}

func (r *MemUserRepo) List(
	ctx context.Context,
	filter *dto.UserListFilter,
	p query.Params,
) ([]*dto.UserRead, int64, error) {
	var matched []*dto.UserRead
	for _, id := range r.order {
		row := r.rows[id]
		if row.IsDeleted || !matchUser(row, filter) {
			continue
		}
		copied := *row
		matched = append(matched, &copied)
	}
	total := int64(len(matched))
	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchUser(row *dto.UserRead, f *dto.UserListFilter) bool {
	if f == nil {
		return true
	}
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	if f.Username != "" && !contains(row.Username, f.Username) {
		return false
	}
	if f.Email != "" && !contains(row.Email, f.Email) {
		return false
	}
	if f.Gender != "" && row.Gender != f.Gender {
		return false
	}
	if f.UserLevel != nil && row.UserLevel != *f.UserLevel {
		return false
	}
	if f.MinUserLevel != nil && row.UserLevel < *f.MinUserLevel {
		return false
	}
	if f.MaxUserLevel != nil && row.UserLevel > *f.MaxUserLevel {
		return false
	}
	if f.Search != "" && !contains(row.Username, f.Search) && !contains(row.Email, f.Search) {
		return false
	}
	return true
}

func (r *MemUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := r.GetByEmail(ctx, email)
	return u != nil, nil
}

// MemTransactionRepo is a map-backed transaction repository.
type MemTransactionRepo struct {
	rows       map[uuid.UUID]*dto.TransactionRead
	owners     map[uuid.UUID]uuid.UUID
	categories map[uuid.UUID][]uuid.UUID
	catNames   map[uuid.UUID]string
	order      []uuid.UUID
}

// SeedCategory registers a category so CategoriesExist can resolve it.
func (r *MemTransactionRepo) SeedCategory(id uuid.UUID, name string) {
	r.catNames[id] = name
}

func (r *MemTransactionRepo) Create(ctx context.Context, create *dto.TransactionCreate) error {
	now := time.Now()
	r.rows[create.ID] = &dto.TransactionRead{
		ID:              create.ID,
		Type:            create.Type,
		Amount:          create.Amount,
		Currency:        create.Currency,
		TransactionDate: create.TransactionDate,
		Description:     create.Description,
		UserID:          create.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.owners[create.ID] = create.UserID
	r.categories[create.ID] = append([]uuid.UUID{}, create.CategoryIDs...)
	r.order = append(r.order, create.ID)
	return nil
}

func (r *MemTransactionRepo) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	row, ok := r.rows[id]
	if !ok || row.IsDeleted {
		return nil, nil
	}
	copied := *row
	copied.UserID = r.owners[id]
	for _, catID := range r.categories[id] {
		copied.Categories = append(copied.Categories,
			transaction.Category{ID: catID, Name: r.catNames[catID]})
	}
	return &copied, nil
}

func (r *MemTransactionRepo) Update(ctx context.Context, id uuid.UUID, update *dto.TransactionUpdate) error {
	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	if update.Type != nil {
		row.Type = *update.Type
	}
	if update.Amount != nil {
		row.Amount = *update.Amount
	}
	if update.Currency != nil {
		row.Currency = *update.Currency
	}
	if update.TransactionDate != nil {
		row.TransactionDate = *update.TransactionDate
	}
	if update.Description != nil {
		row.Description = *update.Description
	}
	row.UpdatedAt = time.Now()
	return nil
}

func (r *MemTransactionRepo) ReplaceOwner(ctx context.Context, id, userID uuid.UUID) error {
	r.owners[id] = userID
	return nil
}

func (r *MemTransactionRepo) ReplaceCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	r.categories[id] = append([]uuid.UUID{}, categoryIDs...)
	return nil
}

func (r *MemTransactionRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if row, ok := r.rows[id]; ok {
		row.IsDeleted = true
	}
	return nil
}

func (r *MemTransactionRepo) List(
	ctx context.Context,
	filter *dto.TransactionListFilter,
	p query.Params,
) ([]*dto.TransactionRead, int64, error) {
	var matched []*dto.TransactionRead
	for _, id := range r.order {
		row := r.rows[id]
		if row.IsDeleted || !r.matchTransaction(id, row, filter) {
			continue
		}
		resolved, _ := r.Get(ctx, id)
		matched = append(matched, resolved)
	}
	total := int64(len(matched))
	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemTransactionRepo) matchTransaction(
	id uuid.UUID,
	row *dto.TransactionRead,
	f *dto.TransactionListFilter,
) bool {
	if f == nil {
		return true
	}
	if f.ScopeUserID != nil && r.owners[id] != *f.ScopeUserID {
		return false
	}
	if f.UserID != nil && r.owners[id] != *f.UserID {
		return false
	}
	if f.Type != "" && row.Type != f.Type {
		return false
	}
	if f.Currency != "" && row.Currency != f.Currency {
		return false
	}
	if f.MinAmount != nil && row.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && row.Amount > *f.MaxAmount {
		return false
	}
	return true
}

func (r *MemTransactionRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	row, ok := r.rows[id]
	return ok && !row.IsDeleted, nil
}

func (r *MemTransactionRepo) IsOwnedBy(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return r.owners[id] == userID, nil
}

func (r *MemTransactionRepo) CategoriesExist(ctx context.Context, categoryIDs []uuid.UUID) (bool, error) {
	for _, id := range categoryIDs {
		if _, ok := r.catNames[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// MemTokenRepo is a map-backed refresh-token repository keyed by hash.
type MemTokenRepo struct {
	rows  map[string]*dto.RefreshTokenRead
	users *MemUserRepo
}

func (r *MemTokenRepo) Create(ctx context.Context, create *dto.RefreshTokenCreate) error {
	r.rows[create.TokenHash] = &dto.RefreshTokenRead{
		ID:         create.ID,
		UserID:     create.UserID,
		TokenHash:  create.TokenHash,
		ExpiresAt:  create.ExpiresAt,
		DeviceInfo: create.DeviceInfo,
		IPAddress:  create.IPAddress,
		CreatedAt:  time.Now(),
	}
	return nil
}

func (r *MemTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*dto.RefreshTokenRead, error) {
	row, ok := r.rows[tokenHash]
	if !ok {
		return nil, nil
	}
	copied := *row
	// Owner is resolved regardless of the soft-delete flag, mirroring the
	// store behavior the rotation checks rely on.
	if raw, ok := r.users.rows[row.UserID]; ok {
		userCopy := *raw
		copied.User = &userCopy
	}
	return &copied, nil
}

func (r *MemTokenRepo) RevokeIfActive(ctx context.Context, tokenHash string) (bool, error) {
	row, ok := r.rows[tokenHash]
	if !ok || row.IsRevoked {
		return false, nil
	}
	row.IsRevoked = true
	return true, nil
}

func (r *MemTokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	if row, ok := r.rows[tokenHash]; ok {
		row.IsRevoked = true
	}
	return nil
}

func (r *MemTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, row := range r.rows {
		if row.UserID == userID {
			row.IsRevoked = true
		}
	}
	return nil
}

// ExpireSessions backdates the stored expiry of every session the user
// holds, leaving the embedded token expiry untouched.
func (r *MemTokenRepo) ExpireSessions(userID uuid.UUID) {
	for _, row := range r.rows {
		if row.UserID == userID {
			row.ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}

// ActiveSessions counts the user's unrevoked sessions.
func (r *MemTokenRepo) ActiveSessions(userID uuid.UUID) int {
	n := 0
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRevoked {
			n++
		}
	}
	return n
}
