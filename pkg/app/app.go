// Package app wires configuration and shared dependencies into the
// application services.
package app

import (
	"log/slog"

	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/pkg/repository"
	"github.com/fintrack/fintrack/pkg/service/auth"
	"github.com/fintrack/fintrack/pkg/service/token"
	"github.com/fintrack/fintrack/pkg/service/transaction"
	"github.com/fintrack/fintrack/pkg/service/user"
	"gorm.io/gorm"
)

// Deps contains the shared dependencies every service is built from.
type Deps struct {
	DB     *gorm.DB
	Uow    repository.UnitOfWork
	Logger *slog.Logger
}

type App struct {
	Deps               *Deps
	Config             *config.App
	TokenService       *token.Service
	AuthService        *auth.Service
	UserService        *user.Service
	TransactionService *transaction.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.TokenService = token.New(deps.Uow, cfg.Auth.Jwt, deps.Logger)
	app.AuthService = auth.New(deps.Uow, app.TokenService, cfg.Auth, deps.Logger)
	app.UserService = user.New(deps.Uow, cfg.Auth, deps.Logger)
	app.TransactionService = transaction.New(deps.Uow, deps.Logger)
	return app
}
