package transaction

import (
	"time"

	"github.com/google/uuid"
)

// CreateTransactionInput represents the request body for recording a
// transaction. UserID defaults to the caller when absent; only admins may
// set it to someone else.
type CreateTransactionInput struct {
	Type            string      `json:"type" validate:"required,oneof=SPEND INCOME"`
	Amount          float64     `json:"amount" validate:"required,gt=0,decimal2"`
	Currency        string      `json:"currency" validate:"required,len=3,alpha"`
	TransactionDate time.Time   `json:"transactionDate" validate:"required"`
	Description     string      `json:"description" validate:"omitempty,max=500"`
	UserID          *uuid.UUID  `json:"userId"`
	CategoryIDs     []uuid.UUID `json:"categoryIds"`
}

// UpdateTransactionInput represents the request body for a partial
// transaction update. Absent fields are left untouched; categoryIds, when
// present, replaces the tag set wholesale.
type UpdateTransactionInput struct {
	Type            *string      `json:"type" validate:"omitempty,oneof=SPEND INCOME"`
	Amount          *float64     `json:"amount" validate:"omitempty,gt=0,decimal2"`
	Currency        *string      `json:"currency" validate:"omitempty,len=3,alpha"`
	TransactionDate *time.Time   `json:"transactionDate"`
	Description     *string      `json:"description" validate:"omitempty,max=500"`
	UserID          *uuid.UUID   `json:"userId"`
	CategoryIDs     *[]uuid.UUID `json:"categoryIds"`
}
