package handler

import (
	"errors"

	"careerxr/internal/delivery/http/dto"
	"careerxr/internal/delivery/http/middleware"
	"careerxr/internal/pkg/response"
	"careerxr/internal/scene"
	"careerxr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SceneHandler struct {
	uc usecase.SceneUsecase
}

func NewSceneHandler(uc usecase.SceneUsecase) *SceneHandler {
	return &SceneHandler{uc: uc}
}

func (h *SceneHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/scenes")
	grp.Get("/layouts", h.ListLayouts)
	grp.Post("/sessions", h.CreateSession)
}

func (h *SceneHandler) ListLayouts(c fiber.Ctx) error {
	layouts := h.uc.ListLayouts(c.Context())
	out := make([]dto.LayoutResponse, 0, len(layouts))
	for _, l := range layouts {
		out = append(out, toLayoutResponse(l))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SceneHandler) CreateSession(c fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.uc.CreateSession(c.Context(), req.Layout)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, usecase.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Layout not found", nil, err)
		case errors.Is(err, usecase.ErrUnavailable):
			return middleware.NewAppError(fiber.StatusTooManyRequests, "Too many active scene sessions", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	return response.Success(c, fiber.StatusCreated, "Session created", dto.SessionResponse{
		SessionID: ticket.SessionID,
		Layout:    ticket.Layout,
		Token:     ticket.Token,
		ExpiresAt: ticket.ExpiresAt,
		SocketURL: "/ws/scenes/" + ticket.SessionID.String() + "?token=" + ticket.Token,
	})
}

func toLayoutResponse(l scene.Layout) dto.LayoutResponse {
	mode, err := scene.ParseCameraMode(l.Camera.Mode)
	if err != nil {
		mode = scene.CameraModeFollow
	}
	out := dto.LayoutResponse{
		Name:       l.Name,
		Title:      l.Title,
		CameraMode: string(mode),
		Walls:      len(l.Walls),
		Doors:      make([]string, 0, len(l.Doors)),
		Clips:      []string{},
	}
	for _, d := range l.Doors {
		out.Doors = append(out.Doors, d.Name)
	}
	if l.Model != nil {
		out.Clips = append(out.Clips, l.Model.Clips...)
	}
	return out
}
