// Package health exposes the liveness endpoint.
package health

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Routes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", Check(db))
}

// Check reports process and database health.
// @Summary Health check
// @Description Report service and database connectivity status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func Check(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		overall, dbStatus := "ok", "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Context()) != nil {
			status = fiber.StatusServiceUnavailable
			overall, dbStatus = "degraded", "down"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   overall,
			"database": dbStatus,
		})
	}
}
