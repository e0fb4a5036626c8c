package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

const HeaderAdminKey = "X-Admin-Key"

var ErrAdminDisabled = errors.New("admin key not configured")

// AdminKeyMiddleware guards operator endpoints with a shared key whose bcrypt
// hash is configured on the server.
type AdminKeyMiddleware struct {
	hash []byte
}

func NewAdminKeyMiddleware(hash string) *AdminKeyMiddleware {
	return &AdminKeyMiddleware{hash: []byte(strings.TrimSpace(hash))}
}

func (m *AdminKeyMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(m.hash) == 0 {
			return NewAppError(fiber.StatusForbidden, "Admin endpoints disabled", nil, ErrAdminDisabled)
		}

		key := strings.TrimSpace(c.Get(HeaderAdminKey))
		if key == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if err := bcrypt.CompareHashAndPassword(m.hash, []byte(key)); err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid admin key", nil, err)
		}
		return c.Next()
	}
}
