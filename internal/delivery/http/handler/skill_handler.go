package handler

import (
	"errors"

	"careerxr/internal/delivery/http/dto"
	"careerxr/internal/delivery/http/middleware"
	"careerxr/internal/pkg/response"
	"careerxr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.CatalogUsecase
}

func NewSkillHandler(uc usecase.CatalogUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.List)
	r.Get("/industries/:industry/skills", h.ListForIndustry)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.ListSkills(c.Context()))
}

func (h *SkillHandler) ListForIndustry(c fiber.Ctx) error {
	industry := c.Params("industry")
	skills, err := h.uc.IndustrySkills(c.Context(), industry)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, usecase.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Industry not found", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.IndustrySkillsResponse{Industry: industry, Skills: skills})
}
