package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/recommend"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("careerxr/internal/usecase")

type RecommendationParams struct {
	Skills          []string
	GroupByIndustry bool
	// Mode and Threshold override the configured scorer when set.
	Mode      string
	Threshold *float64
}

type RecommendedJob struct {
	JobID       uuid.UUID
	Title       string
	Industry    string
	Score       float64
	Overlap     int
	Matched     []string
	Missing     []string
	Experiences []recommend.Experience
}

type RecommendedGroup struct {
	Industry  string
	BestScore float64
	Jobs      []RecommendedJob
}

type RecommendationResult struct {
	Selected  []string
	Mode      recommend.Mode
	Threshold float64
	Level     recommend.Level
	Jobs      []RecommendedJob
	Groups    []RecommendedGroup
	Cached    bool
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, params RecommendationParams) (RecommendationResult, error)
}

type Recommendation struct {
	store       *catalog.Store
	cfg         recommend.Config
	experiences recommend.ExperienceCatalog
	cache       RecommendationCache
	logger      *log.Logger
}

func NewRecommendationUsecase(store *catalog.Store, cfg recommend.Config, experiences recommend.ExperienceCatalog, cache RecommendationCache, logger *log.Logger) *Recommendation {
	return &Recommendation{store: store, cfg: cfg, experiences: experiences, cache: cache, logger: logger}
}

func (u *Recommendation) Recommend(ctx context.Context, params RecommendationParams) (RecommendationResult, error) {
	ctx, span := tracer.Start(ctx, "recommendation.recommend")
	defer span.End()

	cfg, err := u.resolveConfig(params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return RecommendationResult{}, err
	}

	selected, err := recommend.NormalizeSelection(cfg, params.Skills)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return RecommendationResult{}, fmt.Errorf("%w: %w", ErrSelectionBounds, err)
	}
	span.SetAttributes(
		attribute.Int("recommend.selected", len(selected)),
		attribute.String("recommend.mode", string(cfg.Mode)),
		attribute.Float64("recommend.threshold", cfg.Threshold),
	)

	snap := u.store.Snapshot()
	cacheKey := RecommendationCacheKey(selected, cfg, params.GroupByIndustry, snap)
	if u.cache != nil {
		var cached RecommendationResult
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			u.logf("[Recommend] Cache HIT: %s", cacheKey)
			cached.Cached = true
			span.SetAttributes(attribute.Bool("recommend.cache_hit", true))
			return cached, nil
		}
		u.logf("[Recommend] Cache MISS: %s", cacheKey)
	}

	recs, err := recommend.Rank(cfg, snap.Jobs, selected)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RecommendationResult{}, ErrInternal
	}

	level := u.experiences.LevelFor(params.Skills)
	out := RecommendationResult{
		Selected:  selected,
		Mode:      cfg.Mode,
		Threshold: cfg.Threshold,
		Level:     level,
		Jobs:      make([]RecommendedJob, 0, len(recs)),
	}
	for _, r := range recs {
		out.Jobs = append(out.Jobs, u.toItem(r, level))
	}
	if params.GroupByIndustry {
		groups := recommend.Group(cfg, recs)
		out.Groups = make([]RecommendedGroup, 0, len(groups))
		for _, g := range groups {
			rg := RecommendedGroup{Industry: g.Industry, BestScore: g.BestScore, Jobs: make([]RecommendedJob, 0, len(g.Recommendations))}
			for _, r := range g.Recommendations {
				rg.Jobs = append(rg.Jobs, u.toItem(r, level))
			}
			out.Groups = append(out.Groups, rg)
		}
	}
	span.SetAttributes(attribute.Int("recommend.results", len(out.Jobs)))

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, out, 0)
		u.logf("[Recommend] Cache SET: %s", cacheKey)
	}
	return out, nil
}

func (u *Recommendation) resolveConfig(params RecommendationParams) (recommend.Config, error) {
	cfg := u.cfg
	if params.Mode != "" {
		mode, err := recommend.ParseMode(params.Mode)
		if err != nil {
			return recommend.Config{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		cfg.Mode = mode
		// A mode switch without an explicit threshold keeps the scale of
		// that mode: count thresholds are whole skills.
		if params.Threshold == nil && mode != u.cfg.Mode {
			cfg.Threshold = defaultThreshold(mode)
		}
	}
	if params.Threshold != nil {
		cfg.Threshold = *params.Threshold
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, recommend.ErrInvalidMode) || errors.Is(err, recommend.ErrInvalidThreshold) {
			return recommend.Config{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return recommend.Config{}, ErrInternal
	}
	return cfg, nil
}

func defaultThreshold(mode recommend.Mode) float64 {
	if mode == recommend.ModeCount {
		return 1
	}
	return recommend.DefaultConfig().Threshold
}

func (u *Recommendation) toItem(r recommend.Recommendation, level recommend.Level) RecommendedJob {
	return RecommendedJob{
		JobID:       r.Job.ID,
		Title:       r.Job.Title,
		Industry:    r.Job.Industry,
		Score:       r.Score,
		Overlap:     r.Overlap,
		Matched:     r.Matched,
		Missing:     r.Missing,
		Experiences: u.experiences.For(r.Job.Industry, level),
	}
}

func (u *Recommendation) logf(format string, args ...any) {
	if u != nil && u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
