package v1

import (
	"careerxr/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// RegisterCatalog mounts the read side of the catalog and the scorer.
func RegisterCatalog(r fiber.Router, skills *handler.SkillHandler, jobs *handler.JobsHandler, recommendations *handler.RecommendationHandler) {
	if r == nil {
		return
	}

	if skills != nil {
		skills.RegisterRoutes(r)
	}
	if jobs != nil {
		jobs.RegisterRoutes(r)
	}
	if recommendations != nil {
		recommendations.RegisterRoutes(r)
	}
}
