package usecase

import (
	"context"
	"testing"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/industry"
	"careerxr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Queries(t *testing.T) {
	store := catalog.NewStore(catalog.Demo(industry.NewClassifier("")))
	uc := NewCatalogUsecase(store, repository.NewMemoryCatalogRepository(industry.ReferenceSkills))
	ctx := context.Background()

	assert.Contains(t, uc.ListSkills(ctx), "Java")
	assert.Len(t, uc.ListJobs(ctx, ""), 2)
	assert.Len(t, uc.ListJobs(ctx, " information technology "), 2)
	assert.Empty(t, uc.ListJobs(ctx, "Healthcare"))

	inds := uc.ListIndustries(ctx)
	require.Len(t, inds, 1)
	assert.Equal(t, 2, inds[0].Jobs)
}

func TestCatalog_IndustrySkills(t *testing.T) {
	uc := NewCatalogUsecase(catalog.NewStore(catalog.Demo(industry.NewClassifier(""))),
		repository.NewMemoryCatalogRepository(map[string][]string{"Healthcare": {"Patient Care"}}))
	ctx := context.Background()

	skills, err := uc.IndustrySkills(ctx, "healthcare")
	require.NoError(t, err)
	assert.Equal(t, []string{"Patient Care"}, skills)

	_, err = uc.IndustrySkills(ctx, "Mining")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = uc.IndustrySkills(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
