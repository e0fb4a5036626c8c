package handler

import (
	"errors"

	"careerxr/internal/delivery/http/dto"
	"careerxr/internal/delivery/http/middleware"
	"careerxr/internal/pkg/response"
	"careerxr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	uc usecase.CatalogReloadUsecase
}

func NewAdminHandler(uc usecase.CatalogReloadUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/catalog/reload", h.ReloadCatalog)
}

func (h *AdminHandler) ReloadCatalog(c fiber.Ctx) error {
	res, err := h.uc.Reload(c.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrReloadInProgress) {
			return middleware.NewAppError(fiber.StatusConflict, "Catalog reload already in progress", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	msg := "Catalog reloaded"
	if !res.Swapped {
		msg = "Catalog source empty, previous catalog kept"
	}
	return response.Success(c, fiber.StatusOK, msg, dto.ReloadResponse{
		Source:    res.Source,
		Skills:    res.Skills,
		Jobs:      res.Jobs,
		Swapped:   res.Swapped,
		Persisted: res.Persisted,
		LoadedAt:  res.LoadedAt,
	})
}
