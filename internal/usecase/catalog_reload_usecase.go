package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/job"
	"careerxr/internal/infrastructure/events"
	"careerxr/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type CatalogNotifier interface {
	NotifyCatalogUpdated(source string, skills, jobs int)
}

type ReloadResult struct {
	Source    string
	Skills    int
	Jobs      int
	Swapped   bool
	Persisted bool
	LoadedAt  time.Time
}

type CatalogReloadUsecase interface {
	Reload(ctx context.Context) (ReloadResult, error)
}

type CatalogReload struct {
	store     *catalog.Store
	loader    *catalog.Loader
	repo      repository.CatalogRepository
	cache     RecommendationCache
	notifier  CatalogNotifier
	publisher events.Publisher
	logger    *log.Logger
}

func NewCatalogReloadUsecase(store *catalog.Store, loader *catalog.Loader, repo repository.CatalogRepository, cache RecommendationCache, notifier CatalogNotifier, publisher events.Publisher, logger *log.Logger) *CatalogReload {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &CatalogReload{store: store, loader: loader, repo: repo, cache: cache, notifier: notifier, publisher: publisher, logger: logger}
}

// Warm fills the store at startup. When the source yields nothing the last
// persisted import is served instead; a fresh import is persisted.
func (u *CatalogReload) Warm(ctx context.Context) job.Catalog {
	cat := u.loader.Load(ctx)
	if cat.Empty() && u.repo != nil {
		stored, err := u.repo.LoadCatalog(ctx)
		switch {
		case err == nil:
			u.logf("[Catalog] serving persisted import | source=%s jobs=%d", stored.Source, len(stored.Jobs))
			cat = stored
		case !errors.Is(err, repository.ErrCatalogNotFound):
			u.logf("[Catalog] persisted import unavailable | err=%v", err)
		}
	} else if !cat.Empty() && u.repo != nil {
		if err := u.repo.SaveCatalog(ctx, cat); err != nil {
			u.logf("[Catalog] persist failed | err=%v", err)
		}
	}
	u.store.Replace(cat)
	return cat
}

func (u *CatalogReload) Reload(ctx context.Context) (ReloadResult, error) {
	ctx, span := tracer.Start(ctx, "catalog.reload")
	defer span.End()

	lockAcquired := false
	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, catalogReloadLockKey, "1", time.Minute)
		if err == nil && !ok {
			span.SetStatus(codes.Error, ErrReloadInProgress.Error())
			return ReloadResult{}, ErrReloadInProgress
		}
		lockAcquired = err == nil && ok
	}
	defer func() {
		if lockAcquired {
			_ = u.cache.Delete(context.WithoutCancel(ctx), catalogReloadLockKey)
		}
	}()

	cat, swapped := u.store.Reload(ctx, u.loader)
	res := ReloadResult{
		Source:   cat.Source,
		Skills:   len(cat.Skills),
		Jobs:     len(cat.Jobs),
		Swapped:  swapped,
		LoadedAt: cat.LoadedAt,
	}
	span.SetAttributes(
		attribute.String("catalog.source", res.Source),
		attribute.Int("catalog.jobs", res.Jobs),
		attribute.Bool("catalog.swapped", swapped),
	)
	if !swapped {
		u.logf("[Catalog] reload kept previous snapshot | source=%s", u.loader.Source())
		return res, nil
	}

	if u.repo != nil && !cat.Empty() {
		if err := u.repo.SaveCatalog(ctx, cat); err != nil {
			span.RecordError(err)
			u.logf("[Catalog] persist failed | err=%v", err)
		} else {
			res.Persisted = true
		}
	}
	if u.cache != nil {
		if err := u.cache.InvalidateRecommendations(ctx); err != nil {
			u.logf("[Catalog] cache invalidation failed | err=%v", err)
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyCatalogUpdated(res.Source, res.Skills, res.Jobs)
	}
	evt := events.CatalogReloaded{
		Source:   res.Source,
		Skills:   res.Skills,
		Jobs:     res.Jobs,
		Swapped:  swapped,
		LoadedAt: res.LoadedAt,
	}
	if err := u.publisher.Publish(ctx, events.SubjectCatalogReloaded, evt); err != nil {
		u.logf("[Catalog] publish failed | err=%v", err)
	}

	u.logf("[Catalog] reloaded | source=%s skills=%d jobs=%d persisted=%t", res.Source, res.Skills, res.Jobs, res.Persisted)
	return res, nil
}

func (u *CatalogReload) logf(format string, args ...any) {
	if u != nil && u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
