package routes

import (
	"careerxr/internal/delivery/http/middleware"
	v1 "careerxr/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, h v1.Handlers, adminMw *middleware.AdminKeyMiddleware) {
	if r == nil {
		return
	}

	v1.Register(r, h, adminMw)
}
