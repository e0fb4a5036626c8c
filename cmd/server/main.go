package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"careerxr/internal/app"
	"careerxr/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	logger.Printf("server starting | addr=%s env=%s catalog_jobs=%d", addr, cfg.App.Environment, bootstrap.Container.CatalogJobs())
	if err := bootstrap.Run(ctx, addr); err != nil {
		log.Printf("server error: %v", err)
	}
	logger.Printf("server stopped")
}
