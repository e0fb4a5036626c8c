package routes

import (
	"careerxr/internal/delivery/http/handler"
	"careerxr/internal/delivery/http/middleware"
	v1 "careerxr/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

// SocketRoutes is implemented by the websocket handler.
type SocketRoutes interface {
	RegisterRoutes(r fiber.Router)
}

type Registry struct {
	health  *handler.HealthHandler
	v1      v1.Handlers
	adminMw *middleware.AdminKeyMiddleware
	sockets SocketRoutes
}

func NewRegistry(health *handler.HealthHandler, h v1.Handlers, adminMw *middleware.AdminKeyMiddleware, sockets SocketRoutes) *Registry {
	return &Registry{health: health, v1: h, adminMw: adminMw, sockets: sockets}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerSockets(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1, r.adminMw)
}

func (r *Registry) registerSockets(app *fiber.App) {
	if r.sockets != nil {
		r.sockets.RegisterRoutes(app.Group("/ws"))
	}
}
