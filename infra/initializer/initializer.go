// Package initializer builds the application dependencies from loaded
// configuration.
package initializer

import (
	"fmt"

	"github.com/fintrack/fintrack/infra"
	infrarepo "github.com/fintrack/fintrack/infra/repository"
	"github.com/fintrack/fintrack/pkg/app"
	"github.com/fintrack/fintrack/pkg/config"
	"gorm.io/gorm"
)

// InitializeDependencies connects the store and builds the shared
// dependencies every service needs.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{}
	deps.Logger = setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db
	deps.Uow = infrarepo.NewUoW(db)

	return deps, nil
}

// Ping verifies the store connection for the health endpoint.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
