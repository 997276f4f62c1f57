package repository

import (
	"context"

	tokeninfra "github.com/fintrack/fintrack/infra/repository/token"
	transactioninfra "github.com/fintrack/fintrack/infra/repository/transaction"
	userinfra "github.com/fintrack/fintrack/infra/repository/user"
	"github.com/fintrack/fintrack/pkg/repository"
	tokenrepo "github.com/fintrack/fintrack/pkg/repository/token"
	transactionrepo "github.com/fintrack/fintrack/pkg/repository/transaction"
	userrepo "github.com/fintrack/fintrack/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides a transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do are bound to the running
// transaction, so a multi-step sequence commits or rolls back as a whole.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db, tx: db}
}

// Do runs fn in a transaction boundary, providing a UoW whose repositories
// share the transaction session.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// UserRepository returns a user repository bound to the current session.
func (u *UoW) UserRepository() (userrepo.Repository, error) {
	return userinfra.New(u.tx), nil
}

// TransactionRepository returns a transaction repository bound to the
// current session.
func (u *UoW) TransactionRepository() (transactionrepo.Repository, error) {
	return transactioninfra.New(u.tx), nil
}

// TokenRepository returns a refresh-token repository bound to the current
// session.
func (u *UoW) TokenRepository() (tokenrepo.Repository, error) {
	return tokeninfra.New(u.tx), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
