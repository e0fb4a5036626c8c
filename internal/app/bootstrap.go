package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"careerxr/internal/config"
	"careerxr/internal/delivery/http/handler"
	"careerxr/internal/delivery/http/middleware"
	"careerxr/internal/delivery/http/routes"
	v1 "careerxr/internal/delivery/http/routes/v1"
	"careerxr/internal/ws"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	backends := map[string]handler.Pinger{"postgres": nil, "redis": nil}
	if c.DB != nil {
		backends["postgres"] = c.DB
	}
	if c.Config.Redis.Enabled() {
		backends["redis"] = c.Cache
	}

	sockets := ws.NewHandler(c.Hub, c.Sessions, ws.Options{
		AllowedOrigins: c.Config.Auth.AllowedOrigins,
		InputRate:      c.Config.Scene.InputRatePerSec,
		InputBurst:     c.Config.Scene.InputBurst,
	}, c.Logger)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c, backends),
		v1.Handlers{
			Skills:          handler.NewSkillHandler(c.CatalogUC),
			Jobs:            handler.NewJobsHandler(c.CatalogUC),
			Recommendations: handler.NewRecommendationHandler(c.RecommendationUC),
			Scenes:          handler.NewSceneHandler(c.SceneUC),
			Admin:           handler.NewAdminHandler(c.ReloadUC),
		},
		middleware.NewAdminKeyMiddleware(c.Config.Auth.AdminKeyHash),
		sockets,
	)
	registry.Register(app)
}

// Run serves HTTP and runs the lobby hub and the session reaper until ctx is
// cancelled or one of them fails, then shuts the listener down.
func (a *App) Run(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Container.Hub.Run(gctx) })
	g.Go(func() error { return a.Container.Sessions.Run(gctx) })
	g.Go(func() error {
		err := a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Fiber.ShutdownWithContext(sctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
