package v1

import (
	"careerxr/internal/delivery/http/handler"
	"careerxr/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Skills          *handler.SkillHandler
	Jobs            *handler.JobsHandler
	Recommendations *handler.RecommendationHandler
	Scenes          *handler.SceneHandler
	Admin           *handler.AdminHandler
}

func Register(r fiber.Router, h Handlers, adminMw *middleware.AdminKeyMiddleware) {
	if r == nil {
		return
	}

	RegisterCatalog(r, h.Skills, h.Jobs, h.Recommendations)

	if h.Scenes != nil {
		h.Scenes.RegisterRoutes(r)
	}

	if h.Admin != nil && adminMw != nil {
		admin := r.Group("/admin", adminMw.Middleware())
		h.Admin.RegisterRoutes(admin)
	}
}
