// Package repository defines the persistence contracts the services depend
// on. Implementations live under infra/repository.
package repository

import (
	"context"

	tokenrepo "github.com/fintrack/fintrack/pkg/repository/token"
	transactionrepo "github.com/fintrack/fintrack/pkg/repository/transaction"
	userrepo "github.com/fintrack/fintrack/pkg/repository/user"
)

// UnitOfWork provides a transaction boundary and repository access in one
// abstraction. All repositories obtained inside Do share the same DB session,
// so multi-step sequences (rotate-then-issue, link replacement) commit or
// roll back atomically.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed
	// to fn hands out repositories bound to that transaction. If fn
	// returns an error the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	UserRepository() (userrepo.Repository, error)
	TransactionRepository() (transactionrepo.Repository, error)
	TokenRepository() (tokenrepo.Repository, error)
}
