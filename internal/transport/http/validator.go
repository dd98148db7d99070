// FILE: internal/transport/http/validator.go
package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cortex/internal/core"
)

var validate = newValidator()

// newValidator reports fields by their JSON names, e.g. "apiKey"
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bodyFor returns an empty request value for routes that take a JSON body
func bodyFor(method, path string) any {
	switch method {
	case fiber.MethodPost:
		switch {
		case strings.HasSuffix(path, "/games"):
			return &core.CreateGameRequest{}
		case strings.HasSuffix(path, "/moves"):
			return &core.MoveRequest{}
		case strings.HasSuffix(path, "/undo"):
			return &core.UndoRequest{}
		case strings.HasSuffix(path, "/chat"):
			return &core.ChatRequest{}
		}
	case fiber.MethodPut:
		if strings.HasSuffix(path, "/settings") {
			return &core.SettingsRequest{}
		}
	}
	return nil
}

// validationMiddleware parses and validates JSON bodies by route
func validationMiddleware(c *fiber.Ctx) error {
	body := bodyFor(c.Method(), c.Path())
	if body == nil {
		return c.Next()
	}

	if err := c.BodyParser(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		errors.As(err, &verrs)
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, describe(fe))
		}
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: strings.Join(details, "; "),
		})
	}

	c.Locals("validatedBody", body)
	return c.Next()
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", fe.Field(), fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", fe.Field(), fe.Param(), unit)
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// validatedBody returns the body stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "request body was not validated")
	}
	return *body, nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
