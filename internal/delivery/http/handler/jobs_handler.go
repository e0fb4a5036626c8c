package handler

import (
	"careerxr/internal/delivery/http/dto"
	"careerxr/internal/domain/job"
	"careerxr/internal/pkg/response"
	"careerxr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.CatalogUsecase
}

func NewJobsHandler(uc usecase.CatalogUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.HandleListJobs)
	r.Get("/industries", h.HandleListIndustries)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	items := h.uc.ListJobs(c.Context(), c.Query("industry"))

	out := make([]dto.JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toJobResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *JobsHandler) HandleListIndustries(c fiber.Ctx) error {
	items := h.uc.ListIndustries(c.Context())

	out := make([]dto.IndustryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.IndustryResponse{Industry: it.Industry, Jobs: it.Jobs})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toJobResponse(j job.Job) dto.JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return dto.JobResponse{
		JobID:          j.ID,
		Title:          j.Title,
		Industry:       j.Industry,
		SourceIndustry: j.SourceIndustry,
		Skills:         skills,
		MatchScore:     j.MatchScore,
		EntryLevelWage: j.EntryLevelWage,
		AverageWage:    j.AverageWage,
	}
}
