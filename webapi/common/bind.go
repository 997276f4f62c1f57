package common

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Monetary amounts carry at most two decimal places.
	v.RegisterValidation("decimal2", func(fl validator.FieldLevel) bool {
		cents := fl.Field().Float() * 100
		return math.Abs(cents-math.Round(cents)) < 1e-9
	})
	return v
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns a pointer to the populated struct; on
// failure it writes the 400 response itself and returns a nil struct, so
// callers must return the accompanying error as-is and never hand the
// parse or validation error back to fiber.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		var details []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details = append(details, fmt.Sprintf(
					"%s failed on the '%s' rule", fe.Field(), fe.Tag()))
			}
		}
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "validation failed", details...)
	}
	return &input, nil
}
