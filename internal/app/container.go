package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"careerxr/internal/catalog"
	"careerxr/internal/config"
	"careerxr/internal/database"
	"careerxr/internal/database/migration"
	dbpostgres "careerxr/internal/database/postgres"
	"careerxr/internal/database/seeder"
	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/recommend"
	"careerxr/internal/infrastructure/cache"
	"careerxr/internal/infrastructure/events"
	"careerxr/internal/pkg/jwt"
	"careerxr/internal/repository"
	"careerxr/internal/scene"
	"careerxr/internal/session"
	"careerxr/internal/usecase"
	"careerxr/internal/ws"
	"careerxr/migrations"
)

// Container owns every long-lived dependency of the server. Postgres, Redis
// and NATS are optional; without them the service runs on the in-memory
// catalog with no cache and no events.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB        database.DB
	Cache     *cache.Redis
	Publisher events.Publisher

	Catalog  *catalog.Store
	Loader   *catalog.Loader
	Repo     repository.CatalogRepository
	Layouts  *scene.LayoutCatalog
	Sessions *session.Manager
	Hub      *ws.Hub

	CatalogUC        *usecase.Catalog
	RecommendationUC *usecase.Recommendation
	ReloadUC         *usecase.CatalogReload
	SceneUC          *usecase.Scene
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if cfg.Database.Enabled() {
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(dbCtx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		if err := Migrate(ctx, db, logger); err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Repo = repository.NewPostgresCatalogRepository(db)
	} else {
		logger.Printf("[DB] DB_HOST not set, catalog persistence disabled")
		c.Repo = repository.NewMemoryCatalogRepository(industry.ReferenceSkills)
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	pub, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, cfg.App.AppName, logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	c.Publisher = pub

	classifier := industry.NewClassifier(cfg.Catalog.CatchAllIndustry)
	fetcher := catalog.NewSourceFetcher(cfg.Catalog.UserAgent, cfg.Catalog.FetchTimeout)
	fetcher.MaxBodyBytes = cfg.Catalog.MaxBodyBytes
	c.Loader = catalog.NewLoader(fetcher, classifier, cfg.Catalog.Source, logger)
	c.Catalog = catalog.NewStore(job.Catalog{})

	layouts, err := loadLayouts(cfg.Scene.LayoutDir)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load layouts: %w", err)
	}
	c.Layouts = layouts

	tokens := jwt.NewHMACService(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.App.AppName)
	sceneOpts := scene.DefaultOptions()
	sceneOpts.Logger = logger
	c.Sessions = session.NewManager(layouts, tokens, session.Config{
		TickRate:      cfg.Scene.TickRate,
		SnapshotEvery: cfg.Scene.SnapshotEvery,
		MaxSessions:   cfg.Scene.MaxSessions,
		IdleTimeout:   cfg.Scene.IdleTimeout,
		Scene:         sceneOpts,
	}, logger)
	c.Hub = ws.NewHub(logger)

	recCfg, err := RecommendConfig(cfg.Recommend, cfg.Catalog.CatchAllIndustry)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.CatalogUC = usecase.NewCatalogUsecase(c.Catalog, c.Repo)
	c.RecommendationUC = usecase.NewRecommendationUsecase(c.Catalog, recCfg, recommend.DefaultExperiences(cfg.Recommend.AdvancedSkill), c.Cache, logger)
	c.ReloadUC = usecase.NewCatalogReloadUsecase(c.Catalog, c.Loader, c.Repo, c.Cache, c.Hub, c.Publisher, logger)
	c.SceneUC = usecase.NewSceneUsecase(c.Sessions, c.Publisher, logger)

	c.ReloadUC.Warm(ctx)
	return c, nil
}

// Migrate applies the embedded migrations and the default seeders.
func Migrate(ctx context.Context, db database.DB, logger *log.Logger) error {
	if err := (migration.Runner{FS: migrations.FS, Logger: logger}).Run(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}).Run(ctx, db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

// RecommendConfig maps the environment onto the scorer configuration.
func RecommendConfig(rc config.RecommendConfig, catchAll string) (recommend.Config, error) {
	mode, err := recommend.ParseMode(rc.Mode)
	if err != nil {
		return recommend.Config{}, err
	}
	out := recommend.Config{
		Mode:             mode,
		Threshold:        rc.Threshold,
		MinSelected:      rc.MinSelected,
		MaxSelected:      rc.MaxSelected,
		CatchAllIndustry: catchAll,
	}
	if err := out.Validate(); err != nil {
		return recommend.Config{}, err
	}
	return out, nil
}

func loadLayouts(dir string) (*scene.LayoutCatalog, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return scene.LoadLayouts(nil)
	}
	return scene.LoadLayouts(os.DirFS(dir))
}

func (c *Container) CatalogJobs() int {
	return len(c.Catalog.Snapshot().Jobs)
}

func (c *Container) ActiveSessions() int {
	return c.Sessions.Count()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
