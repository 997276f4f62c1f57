// Package model holds the gorm models backing the relational store. Soft
// deletion is an explicit flag plus timestamp rather than gorm's DeletedAt,
// because uniqueness and filtering are scoped to non-deleted rows by the
// queries themselves.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a user account row. The email unique index is partial: a deleted
// user's email may be reused by a new registration, and the store closes the
// check-then-act race the service-level pre-check leaves open.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username    string    `gorm:"size:50;not null"`
	Email       string    `gorm:"size:255;not null;uniqueIndex:uniq_users_email_active,where:is_deleted = false"`
	Password    string    `gorm:"not null"`
	UserLevel   int       `gorm:"not null;default:1"`
	Avatar      string    `gorm:"size:512"`
	Gender      string    `gorm:"size:10"`
	DateOfBirth *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsDeleted   bool `gorm:"not null;default:false;index"`
	DeletedAt   *time.Time
}

func (User) TableName() string {
	return "users"
}

// RefreshToken is one refresh-token session. TokenHash is the hex SHA-256 of
// the raw token; rows are revoked, never removed.
type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash  string    `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"not null"`
	IsRevoked  bool      `gorm:"not null;default:false"`
	DeviceInfo string    `gorm:"size:255"`
	IPAddress  string    `gorm:"size:45"`
	CreatedAt  time.Time
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Transaction is a financial transaction row. Owner and category
// associations live in the join tables below.
type Transaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type            string    `gorm:"size:10;not null;index"`
	Amount          float64   `gorm:"type:decimal(12,2);not null"`
	Currency        string    `gorm:"size:3;not null;index"`
	TransactionDate time.Time `gorm:"not null;index"`
	Description     string    `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	IsDeleted       bool `gorm:"not null;default:false;index"`
	DeletedAt       *time.Time
}

func (Transaction) TableName() string {
	return "transactions"
}

// Category is a transaction tag, managed externally and referenced by id.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string {
	return "categories"
}

// UserTransaction links a transaction to its owning user. The schema permits
// many rows per transaction but usage keeps exactly one.
type UserTransaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_user_transaction,priority:1"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_user_transaction,priority:2;index"`
	CreatedAt     time.Time
}

func (UserTransaction) TableName() string {
	return "user_transactions"
}

// TransactionCategory links a transaction to one of its categories.
type TransactionCategory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_transaction_category,priority:1"`
	CategoryID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_transaction_category,priority:2"`
	CreatedAt     time.Time
}

func (TransactionCategory) TableName() string {
	return "transaction_categories"
}
