package handler

import (
	"errors"

	"careerxr/internal/delivery/http/dto"
	"careerxr/internal/delivery/http/middleware"
	"careerxr/internal/domain/recommend"
	"careerxr/internal/pkg/response"
	"careerxr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/recommendations", h.Recommend)
}

func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	var req dto.RecommendationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.uc.Recommend(c.Context(), usecase.RecommendationParams{
		Skills:          req.Skills,
		GroupByIndustry: req.GroupByIndustry,
		Mode:            req.Mode,
		Threshold:       req.Threshold,
	})
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	out := dto.RecommendationResponse{
		Selected:        res.Selected,
		Mode:            string(res.Mode),
		Threshold:       res.Threshold,
		Level:           string(res.Level),
		Recommendations: make([]dto.RecommendedJobResponse, 0, len(res.Jobs)),
	}
	for _, it := range res.Jobs {
		out.Recommendations = append(out.Recommendations, toRecommendedJobResponse(it))
	}
	if req.GroupByIndustry {
		out.Groups = make([]dto.IndustryGroupResponse, 0, len(res.Groups))
		for _, g := range res.Groups {
			grp := dto.IndustryGroupResponse{Industry: g.Industry, BestScore: g.BestScore, Jobs: make([]dto.RecommendedJobResponse, 0, len(g.Jobs))}
			for _, it := range g.Jobs {
				grp.Jobs = append(grp.Jobs, toRecommendedJobResponse(it))
			}
			out.Groups = append(out.Groups, grp)
		}
	}

	if res.Cached {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toRecommendedJobResponse(it usecase.RecommendedJob) dto.RecommendedJobResponse {
	exps := make([]dto.ExperienceResponse, 0, len(it.Experiences))
	for _, e := range it.Experiences {
		exps = append(exps, dto.ExperienceResponse{Name: e.Name, Layout: e.Layout, Level: string(e.Level)})
	}
	return dto.RecommendedJobResponse{
		JobID:       it.JobID,
		Title:       it.Title,
		Industry:    it.Industry,
		Score:       it.Score,
		Overlap:     it.Overlap,
		Matched:     it.Matched,
		Missing:     it.Missing,
		Experiences: exps,
	}
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, recommend.ErrSelectionTooSmall):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Please select at least the minimum number of skills", nil, err)
	case errors.Is(err, recommend.ErrSelectionTooLarge):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Too many skills selected", nil, err)
	case errors.Is(err, usecase.ErrSelectionBounds):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, response.MessageUnprocessableEntity, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
