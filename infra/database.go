// Package infra wires the application to its external resources: the
// relational store and the root logger.
package infra

import (
	"errors"
	"time"

	"github.com/fintrack/fintrack/infra/repository/model"
	"github.com/fintrack/fintrack/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the postgres connection, configures the pool and
// migrates the schema.
func NewDBConnection(cfg *config.DB, appEnv string) (*gorm.DB, error) {
	if cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Transaction{},
		&model.Category{},
		&model.UserTransaction{},
		&model.TransactionCategory{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
