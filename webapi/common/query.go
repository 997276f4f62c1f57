package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fintrack/fintrack/pkg/query"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParseParams reads the pagination and sorting query parameters. Missing
// values are left zero for the service to normalize.
func ParseParams(c *fiber.Ctx) query.Params {
	return query.Params{
		Page:      c.QueryInt("page"),
		Limit:     c.QueryInt("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: strings.ToLower(c.Query("sortOrder")),
	}
}

// QueryTime reads an optional timestamp parameter, accepting RFC 3339 or a
// bare date.
func QueryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", key)
}

// QueryIntPtr reads an optional integer parameter.
func QueryIntPtr(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

// QueryFloatPtr reads an optional decimal parameter.
func QueryFloatPtr(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

// QueryUUIDPtr reads an optional UUID parameter.
func QueryUUIDPtr(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID", key)
	}
	return &id, nil
}

// QueryUUIDs reads an optional comma-separated list of UUIDs.
func QueryUUIDs(c *fiber.Ctx, key string) ([]uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%s must be a comma-separated list of UUIDs", key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
