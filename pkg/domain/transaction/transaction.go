package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a transaction cannot be found or is
	// soft-deleted.
	ErrNotFound = errors.New("transaction not found")
	// ErrNotOwner is returned when a non-admin touches a transaction that
	// is not linked to them.
	ErrNotOwner = errors.New("you can only manage your own transactions")
	// ErrUserNotFound is returned when the owning user of a transaction
	// does not exist or is soft-deleted.
	ErrUserNotFound = errors.New("user not found")
	// ErrCategoryNotFound is returned when one or more referenced
	// categories do not exist.
	ErrCategoryNotFound = errors.New("one or more categories not found")
)

// Type enumerates the transaction kinds.
type Type string

const (
	TypeSpend  Type = "SPEND"
	TypeIncome Type = "INCOME"
)

// Valid reports whether t is one of the accepted transaction types.
func (t Type) Valid() bool {
	return t == TypeSpend || t == TypeIncome
}

// Category is a tag attached to transactions. Categories are managed
// externally and referenced by id.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Transaction represents a financial transaction owned by exactly one user
// and tagged with zero or more categories.
type Transaction struct {
	ID              uuid.UUID  `json:"id"`
	Type            Type       `json:"type"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	TransactionDate time.Time  `json:"transactionDate"`
	Description     string     `json:"description,omitempty"`
	UserID          uuid.UUID  `json:"userId"`
	Categories      []Category `json:"categories"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
