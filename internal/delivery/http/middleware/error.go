package middleware

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"careerxr/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError is what handlers return for an expected failure. Status and
// Message reach the client; Cause is only logged.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("panic recovered: %v\n%s", r, debug.Stack())
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		out := resolve(err)
		if out.status >= 500 {
			m.logger.Printf("HTTP error | method=%s path=%s err=%v", c.Method(), c.Path(), err)
		}
		return response.Error(c, out.status, out.message, out.data)
	}
}

type resolved struct {
	status  int
	message string
	data    any
}

// resolve maps err to what the client sees. Server-side failures never leak
// their message or data.
func resolve(err error) resolved {
	out := resolved{status: fiber.StatusInternalServerError}

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		out = resolved{status: appErr.StatusCode, message: appErr.Message, data: appErr.Data}
	case errors.As(err, &fiberErr):
		out = resolved{status: fiberErr.Code, message: fiberErr.Message}
	}

	if out.status <= 0 || out.status >= 500 {
		return resolved{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError}
	}
	if out.message == "" {
		out.message = response.DefaultMessage(out.status)
	}
	return out
}
