package usecase

import (
	"context"
	"strings"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/job"
	"careerxr/internal/repository"
)

type CatalogUsecase interface {
	ListSkills(ctx context.Context) []string
	ListJobs(ctx context.Context, industry string) []job.Job
	ListIndustries(ctx context.Context) []job.IndustryCount
	IndustrySkills(ctx context.Context, industry string) ([]string, error)
}

type Catalog struct {
	store *catalog.Store
	repo  repository.CatalogRepository
}

func NewCatalogUsecase(store *catalog.Store, repo repository.CatalogRepository) *Catalog {
	return &Catalog{store: store, repo: repo}
}

func (u *Catalog) ListSkills(context.Context) []string {
	return u.store.Skills()
}

func (u *Catalog) ListJobs(_ context.Context, industry string) []job.Job {
	return u.store.Jobs(strings.TrimSpace(industry))
}

func (u *Catalog) ListIndustries(context.Context) []job.IndustryCount {
	return u.store.Industries()
}

// IndustrySkills returns the curated reference skills for an industry.
func (u *Catalog) IndustrySkills(ctx context.Context, industry string) ([]string, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, ErrInvalidInput
	}
	if u.repo == nil {
		return nil, ErrNotFound
	}
	skills, err := u.repo.ReferenceSkills(ctx, industry)
	if err != nil {
		return nil, ErrInternal
	}
	if len(skills) == 0 {
		return nil, ErrNotFound
	}
	return skills, nil
}
