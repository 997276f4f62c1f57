// Package common holds the response envelope, error mapping and request
// binding helpers shared by every handler package.
package common

import (
	"errors"
	"time"

	"github.com/fintrack/fintrack/pkg/domain/auth"
	"github.com/fintrack/fintrack/pkg/domain/transaction"
	"github.com/fintrack/fintrack/pkg/domain/user"
	"github.com/fintrack/fintrack/pkg/query"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ErrorBody is the uniform error payload. Details carries field-level
// validation messages when present.
type ErrorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Error      string   `json:"error"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Details    []string `json:"details,omitempty"`
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(
	c *fiber.Ctx,
	status int,
	message string,
	data any,
) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON writes the uniform error payload. details is optional
// and only used for validation failures.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	message string,
	details ...string,
) error {
	return c.Status(status).JSON(ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      statusText(status),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.OriginalURL(),
		Details:    details,
	})
}

// DomainErrorJSON maps a service error to its HTTP status and writes the
// error payload with the error's own message.
func DomainErrorJSON(c *fiber.Ctx, err error) error {
	status := ErrorToStatusCode(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		// Internals stay in the logs.
		message = "internal server error"
	}
	return ErrorResponseJSON(c, status, message)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, transaction.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, transaction.ErrUserNotFound),
		errors.Is(err, transaction.ErrCategoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, user.ErrLevelNotHigher):
		return fiber.StatusConflict
	case errors.Is(err, query.ErrInvalidQuery):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func statusText(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "Bad Request"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusNotFound:
		return "Not Found"
	case fiber.StatusConflict:
		return "Conflict"
	case fiber.StatusTooManyRequests:
		return "Too Many Requests"
	default:
		return "Internal Server Error"
	}
}
