package handler

import (
	"context"
	"time"

	"careerxr/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is any optional backend the health check reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStats interface {
	CatalogJobs() int
	ActiveSessions() int
}

type HealthHandler struct {
	stats    HealthStats
	backends map[string]Pinger
}

type healthResponse struct {
	CatalogJobs    int               `json:"catalog_jobs"`
	ActiveSessions int               `json:"active_sessions"`
	Backends       map[string]string `json:"backends"`
}

func NewHealthHandler(stats HealthStats, backends map[string]Pinger) *HealthHandler {
	return &HealthHandler{stats: stats, backends: backends}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Backends: make(map[string]string, len(h.backends))}
	if h.stats != nil {
		out.CatalogJobs = h.stats.CatalogJobs()
		out.ActiveSessions = h.stats.ActiveSessions()
	}
	for name, p := range h.backends {
		switch {
		case p == nil:
			out.Backends[name] = "disabled"
		case p.Ping(ctx) != nil:
			out.Backends[name] = "down"
		default:
			out.Backends[name] = "ok"
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
