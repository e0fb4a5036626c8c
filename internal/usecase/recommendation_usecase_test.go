package usecase

import (
	"context"
	"testing"
	"time"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/recommend"

	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommendation(c RecommendationCache) *Recommendation {
	store := catalog.NewStore(catalog.Demo(industry.NewClassifier("")))
	return NewRecommendationUsecase(store, recommend.DefaultConfig(), recommend.DefaultExperiences("Advanced Skills"), c, nil)
}

func TestRecommendation_RanksByRatio(t *testing.T) {
	uc := newRecommendation(nil)

	res, err := uc.Recommend(context.Background(), RecommendationParams{Skills: []string{"Java", "SQL", "Communication"}})
	require.NoError(t, err)

	require.Len(t, res.Jobs, 2)
	assert.Equal(t, "Software Developer", res.Jobs[0].Title)
	assert.InDelta(t, 1.0, res.Jobs[0].Score, 1e-9)
	assert.Equal(t, "Data Analyst", res.Jobs[1].Title)
	assert.InDelta(t, 2.0/3.0, res.Jobs[1].Score, 1e-9)
	assert.Equal(t, recommend.LevelJunior, res.Level)
	assert.Equal(t, "Beginner World", res.Jobs[0].Experiences[0].Name)
	assert.Nil(t, res.Groups)
}

func TestRecommendation_Grouped(t *testing.T) {
	uc := newRecommendation(nil)

	res, err := uc.Recommend(context.Background(), RecommendationParams{
		Skills:          []string{"SQL", "Data Analysis", "Advanced Skills"},
		GroupByIndustry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, recommend.LevelSenior, res.Level)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Information Technology", res.Groups[0].Industry)
	assert.Len(t, res.Groups[0].Jobs, 2)
	assert.Equal(t, "Advanced Design Lab", res.Groups[0].Jobs[0].Experiences[0].Name)
}

func TestRecommendation_SelectionBounds(t *testing.T) {
	uc := newRecommendation(nil)

	_, err := uc.Recommend(context.Background(), RecommendationParams{Skills: []string{" ", ""}})
	assert.ErrorIs(t, err, ErrSelectionBounds)
	assert.ErrorIs(t, err, recommend.ErrSelectionTooSmall)

	_, err = uc.Recommend(context.Background(), RecommendationParams{Skills: []string{"a", "b", "c", "d", "e", "f"}})
	assert.ErrorIs(t, err, ErrSelectionBounds)
	assert.ErrorIs(t, err, recommend.ErrSelectionTooLarge)

	// Duplicates collapse before the bound is checked.
	_, err = uc.Recommend(context.Background(), RecommendationParams{Skills: []string{"SQL", "sql", " SQL ", "Java", "Git", "Go"}})
	assert.NoError(t, err)
}

func TestRecommendation_Overrides(t *testing.T) {
	uc := newRecommendation(nil)
	ctx := context.Background()

	res, err := uc.Recommend(ctx, RecommendationParams{Skills: []string{"SQL"}, Mode: "count"})
	require.NoError(t, err)
	assert.Equal(t, recommend.ModeCount, res.Mode)
	assert.Equal(t, 1.0, res.Threshold)
	assert.Len(t, res.Jobs, 2)

	high := 2.0
	res, err = uc.Recommend(ctx, RecommendationParams{Skills: []string{"SQL"}, Mode: "count", Threshold: &high})
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)

	_, err = uc.Recommend(ctx, RecommendationParams{Skills: []string{"SQL"}, Mode: "weighted"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Recommend(ctx, RecommendationParams{Skills: []string{"SQL"}, Threshold: &high})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecommendation_Cache(t *testing.T) {
	c := newFakeCache()
	uc := newRecommendation(c)
	ctx := context.Background()
	params := RecommendationParams{Skills: []string{"Java", "SQL"}}

	first, err := uc.Recommend(ctx, params)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, c.data, 1)

	second, err := uc.Recommend(ctx, params)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Jobs[0].Title, second.Jobs[0].Title)
	assert.Equal(t, first.Jobs[0].JobID, second.Jobs[0].JobID)
}

func TestRecommendation_ReloadDuringRankingIsNotServed(t *testing.T) {
	c := newFakeCache()
	store := catalog.NewStore(catalog.Demo(industry.NewClassifier("")))
	uc := NewRecommendationUsecase(store, recommend.DefaultConfig(), recommend.DefaultExperiences("Advanced Skills"), c, nil)
	ctx := context.Background()
	params := RecommendationParams{Skills: []string{"Java", "SQL"}}

	// The reload swaps the catalog and invalidates after the old snapshot was
	// ranked but before its result is written.
	c.beforeSet = func() {
		store.Replace(job.Catalog{
			Skills:   []string{"Java", "SQL"},
			Jobs:     []job.Job{{ID: uuid.New(), Title: "Database Engineer", Industry: "Information Technology", Skills: []string{"Java", "SQL"}}},
			Source:   "reloaded",
			LoadedAt: time.Now(),
		})
		require.NoError(t, c.InvalidateRecommendations(ctx))
	}

	first, err := uc.Recommend(ctx, params)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Software Developer", first.Jobs[0].Title)

	second, err := uc.Recommend(ctx, params)
	require.NoError(t, err)
	assert.False(t, second.Cached)
	require.Len(t, second.Jobs, 1)
	assert.Equal(t, "Database Engineer", second.Jobs[0].Title)

	third, err := uc.Recommend(ctx, params)
	require.NoError(t, err)
	assert.True(t, third.Cached)
	assert.Equal(t, "Database Engineer", third.Jobs[0].Title)
}

func TestRecommendationCacheKey(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cat := job.Catalog{Generation: 1, LoadedAt: time.Unix(100, 0)}
	a := RecommendationCacheKey([]string{"java", "sql"}, cfg, false, cat)

	assert.Equal(t, a, RecommendationCacheKey([]string{" Java ", "SQL"}, cfg, false, cat))
	assert.NotEqual(t, a, RecommendationCacheKey([]string{"java", "sql"}, cfg, true, cat))
	assert.NotEqual(t, a, RecommendationCacheKey([]string{"java", "sql"}, cfg, false, job.Catalog{Generation: 2, LoadedAt: cat.LoadedAt}))
	assert.NotEqual(t, a, RecommendationCacheKey([]string{"java", "sql"}, cfg, false, job.Catalog{Generation: 1, LoadedAt: time.Unix(200, 0)}))
	cfg.Threshold = 0.5
	assert.NotEqual(t, a, RecommendationCacheKey([]string{"java", "sql"}, cfg, false, cat))
	assert.Contains(t, a, "recommend:")
}
