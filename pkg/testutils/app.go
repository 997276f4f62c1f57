package testutils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fintrack/fintrack/pkg/app"
	"github.com/fintrack/fintrack/pkg/config"
	"github.com/fintrack/fintrack/webapi"
	"github.com/gofiber/fiber/v2"
)

// TestConfig returns a configuration suitable for handler tests: fast
// hashing, generous rate limits, throwaway secrets.
func TestConfig() *config.App {
	return &config.App{
		Env: "test",
		Server: &config.Server{
			Scheme: "http",
			Host:   "localhost",
			Port:   3000,
		},
		Log: &config.Log{Format: "text"},
		DB:  &config.DB{},
		Auth: &config.Auth{
			Jwt: &config.Jwt{
				AccessSecret:  "test-access-secret",
				RefreshSecret: "test-refresh-secret",
				AccessExpiry:  15 * time.Minute,
				RefreshExpiry: 7 * 24 * time.Hour,
			},
			BcryptCost: 4,
		},
		RateLimit: &config.RateLimit{
			MaxRequests: 10000,
			Window:      time.Minute,
		},
	}
}

// NewTestApp wires the full HTTP surface over an in-memory store.
func NewTestApp() (*fiber.App, *app.App, *MemUoW) {
	uow := NewMemUoW()
	cfg := TestConfig()
	a := app.New(&app.Deps{Uow: uow, Logger: NewLogger()}, cfg)
	return webapi.SetupApp(a), a, uow
}

// DecodeBody decodes a JSON response body into out.
func DecodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close() //nolint:errcheck
	return json.NewDecoder(resp.Body).Decode(out)
}
