package handler

import (
	"errors"
	"fmt"

	"careerxr/internal/delivery/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var validate = validator.New()

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c fiber.Ctx, req any) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, validationMessage(err), validationDetails(err), err)
	}
	return nil
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Sprintf("validation error: %s - %s", ve[0].Field(), ve[0].Tag())
	}
	return "validation error: invalid request"
}

func validationDetails(err error) []fieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]fieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fieldError{Field: fe.Namespace(), Rule: fe.Tag()})
	}
	return out
}
