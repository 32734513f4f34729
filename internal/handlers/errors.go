package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"storefront/internal/permissions"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// bodyError wraps a request body that could not be decoded.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return e.err.Error() }

func (e *bodyError) Unwrap() error { return e.err }

// newValidator returns a validator that reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody parses the JSON body into dst and runs its validate tags.
func decodeBody(c *fiber.Ctx, v *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &bodyError{err: err}
	}
	return v.Struct(dst)
}

// parseID reads the :id route parameter. Anything but a positive integer
// cannot name a stored row and is reported as not found.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fmt.Errorf("id %q: %w", c.Params("id"), repositories.ErrNotFound)
	}
	return uint(id), nil
}

// respondError maps an error from any layer onto its HTTP response.
func respondError(c *fiber.Ctx, err error) error {
	var (
		bodyErr       *bodyError
		tagErrs       validator.ValidationErrors
		validationErr *services.ValidationError
	)

	switch {
	case errors.As(err, &bodyErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   bodyErr.Error(),
		})
	case errors.As(err, &tagErrs):
		errorMessages := make(map[string]string)
		for _, e := range tagErrs {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	case errors.As(err, &validationErr):
		body := fiber.Map{
			"message": "Validation failed",
			"errors":  fiber.Map{fieldOrDefault(validationErr.Field): validationErr.Message},
			"code":    validationErr.Code,
		}
		if len(validationErr.ProductIDs) > 0 {
			body["product_ids"] = validationErr.ProductIDs
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, permissions.ErrAuthenticationRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, permissions.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found."})
	}

	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

func fieldOrDefault(field string) string {
	if field == "" {
		return "non_field_errors"
	}
	return field
}
