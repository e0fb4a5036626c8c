package usecase

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
	"careerxr/internal/infrastructure/events"
	"careerxr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reloadFixture struct {
	uc        *CatalogReload
	store     *catalog.Store
	fetcher   *fakeFetcher
	repo      *repository.MemoryCatalogRepository
	cache     *fakeCache
	notifier  *fakeNotifier
	publisher *fakePublisher
	logs      *bytes.Buffer
}

func newReloadFixture(t *testing.T) reloadFixture {
	t.Helper()
	body, err := os.ReadFile("../catalog/testdata/jobs.csv")
	require.NoError(t, err)

	f := reloadFixture{
		store:     catalog.NewStore(job.Catalog{}),
		fetcher:   &fakeFetcher{body: body},
		repo:      repository.NewMemoryCatalogRepository(nil),
		cache:     newFakeCache(),
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		logs:      &bytes.Buffer{},
	}
	logger := log.New(f.logs, "", 0)
	loader := catalog.NewLoader(f.fetcher, industry.NewClassifier(""), "jobs.csv", logger)
	f.uc = NewCatalogReloadUsecase(f.store, loader, f.repo, f.cache, f.notifier, f.publisher, logger)
	return f
}

func TestCatalogReload_Reload(t *testing.T) {
	f := newReloadFixture(t)
	_ = f.cache.SetJSON(context.Background(), "recommend:stale", "x", 0)

	res, err := f.uc.Reload(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Swapped)
	assert.True(t, res.Persisted)
	assert.Equal(t, 3, res.Jobs)
	assert.Len(t, f.store.Snapshot().Jobs, 3)

	assert.Equal(t, 1, f.cache.invalidated)
	assert.NotContains(t, f.cache.data, "recommend:stale")
	assert.False(t, f.cache.locks[catalogReloadLockKey], "lock released")

	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, 3, f.notifier.jobs)

	require.Len(t, f.publisher.msgs, 1)
	assert.Equal(t, events.SubjectCatalogReloaded, f.publisher.msgs[0].subject)
	evt, ok := f.publisher.msgs[0].payload.(events.CatalogReloaded)
	require.True(t, ok)
	assert.Equal(t, 3, evt.Jobs)

	stored, err := f.repo.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored.Jobs, 3)
}

func TestCatalogReload_KeepsPreviousOnFailure(t *testing.T) {
	f := newReloadFixture(t)
	_, err := f.uc.Reload(context.Background())
	require.NoError(t, err)

	f.fetcher.body, f.fetcher.err = nil, errors.New("connection refused")
	res, err := f.uc.Reload(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Swapped)
	assert.Equal(t, 3, res.Jobs)
	assert.Len(t, f.store.Snapshot().Jobs, 3)
	assert.Equal(t, 1, f.notifier.calls)
	assert.Len(t, f.publisher.msgs, 1)
	assert.Contains(t, f.logs.String(), "[Catalog] reload kept previous snapshot")
}

func TestCatalogReload_InProgress(t *testing.T) {
	f := newReloadFixture(t)
	ok, _ := f.cache.SetIfNotExists(context.Background(), catalogReloadLockKey, "1", 0)
	require.True(t, ok)

	_, err := f.uc.Reload(context.Background())
	assert.ErrorIs(t, err, ErrReloadInProgress)
	assert.Empty(t, f.store.Snapshot().Jobs)
	assert.True(t, f.cache.locks[catalogReloadLockKey], "foreign lock untouched")
}

func TestCatalogReload_WarmFallsBackToPersisted(t *testing.T) {
	f := newReloadFixture(t)
	cat := f.uc.Warm(context.Background())
	require.Len(t, cat.Jobs, 3)

	f.fetcher.body, f.fetcher.err = nil, errors.New("offline")
	f.store.Replace(job.Catalog{})
	cat = f.uc.Warm(context.Background())

	assert.Len(t, cat.Jobs, 3)
	assert.Len(t, f.store.Snapshot().Jobs, 3)
	assert.Contains(t, f.logs.String(), "[Catalog] serving persisted import")
}

func TestCatalogReload_WarmWithNothing(t *testing.T) {
	f := newReloadFixture(t)
	f.fetcher.body, f.fetcher.err = nil, errors.New("offline")

	cat := f.uc.Warm(context.Background())
	assert.True(t, cat.Empty())
	assert.NotNil(t, f.store.Snapshot().Jobs)
}
