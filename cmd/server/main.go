package main

import (
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"
	_ "github.com/fintrack/fintrack/docs"
	"github.com/fintrack/fintrack/infra/initializer"
	"github.com/fintrack/fintrack/pkg/app"
	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/webapi"
)

// @title FinTrack API
// @version 1.0.0
// @description Personal finance tracker API documentation
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	a := app.New(deps, cfg)
	fiberApp := webapi.SetupApp(a)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return fiberApp.Listen(addr)
}
