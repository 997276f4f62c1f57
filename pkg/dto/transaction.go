package dto

import (
	"time"

	"github.com/fintrack/fintrack/pkg/domain/transaction"
	"github.com/google/uuid"
)

// TransactionCreate represents the data needed to persist a new transaction
// together with its owner link and category links.
type TransactionCreate struct {
	ID              uuid.UUID
	Type            transaction.Type
	Amount          float64
	Currency        string
	TransactionDate time.Time
	Description     string
	UserID          uuid.UUID
	CategoryIDs     []uuid.UUID
}

// TransactionUpdate represents a partial update; nil fields are left
// untouched. When UserID or CategoryIDs is supplied the corresponding links
// are replaced wholesale.
type TransactionUpdate struct {
	Type            *transaction.Type
	Amount          *float64
	Currency        *string
	TransactionDate *time.Time
	Description     *string
	UserID          *uuid.UUID
	CategoryIDs     *[]uuid.UUID
}

// TransactionRead is the read-optimized view of a transaction row with its
// owner and category associations resolved.
type TransactionRead struct {
	ID              uuid.UUID
	Type            transaction.Type
	Amount          float64
	Currency        string
	TransactionDate time.Time
	Description     string
	UserID          uuid.UUID
	Categories      []transaction.Category
	CreatedAt       time.Time
	UpdatedAt       time.Time
	IsDeleted       bool
}

// Domain converts the row to the domain representation.
func (t *TransactionRead) Domain() *transaction.Transaction {
	return &transaction.Transaction{
		ID:              t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		Currency:        t.Currency,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		UserID:          t.UserID,
		Categories:      t.Categories,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TransactionSortFields is the sort allow-list for transaction list queries.
var TransactionSortFields = []string{"type", "amount", "currency", "transactionDate", "createdAt", "updatedAt"}

// TransactionDefaultSort is the natural sort column for transaction list queries.
const TransactionDefaultSort = "transactionDate"

// TransactionListFilter is the structured filter a transaction list query is
// built from. ScopeUserID, when set, restricts results to transactions owned
// by that user regardless of the UserID field filter; the service sets it for
// every non-admin caller so no route can widen its own scope.
type TransactionListFilter struct {
	Type                  transaction.Type
	Currency              string
	MinAmount             *float64
	MaxAmount             *float64
	Description           string
	UserID                *uuid.UUID
	CategoryIDs           []uuid.UUID
	TransactionDateAfter  *time.Time
	TransactionDateBefore *time.Time
	CreatedAfter          *time.Time
	CreatedBefore         *time.Time
	Search                string
	ScopeUserID           *uuid.UUID
}
