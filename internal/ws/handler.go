package ws

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"careerxr/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type Handler struct {
	hub      *Hub
	sessions *session.Manager
	upgrader websocket.Upgrader
	rate     rate.Limit
	burst    int
	logger   *log.Logger
}

type Options struct {
	AllowedOrigins []string
	InputRate      float64
	InputBurst     int
}

func NewHandler(hub *Hub, sessions *session.Manager, opts Options, logger *log.Logger) *Handler {
	h := &Handler{
		hub:      hub,
		sessions: sessions,
		rate:     rate.Limit(opts.InputRate),
		burst:    opts.InputBurst,
		logger:   logger,
	}
	if opts.InputRate <= 0 {
		h.rate = rate.Inf
	}
	if h.burst <= 0 {
		h.burst = 1
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return h
}

// originChecker allows any origin when the list is empty.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := strings.TrimRight(strings.ToLower(r.Header.Get("Origin")), "/")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/lobby", h.HandleLobbyWS)
	r.Get("/scenes/:id", h.HandleSceneWS)
}

func (h *Handler) HandleLobbyWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | error=%v", err)
			}
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

// HandleSceneWS attaches the connection to a scene session. The token from
// session creation is passed as ?token=.
func (h *Handler) HandleSceneWS(c fiber.Ctx) error {
	if h == nil || h.sessions == nil {
		return fiber.ErrServiceUnavailable
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	sess, err := h.sessions.Attach(id, c.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		case errors.Is(err, session.ErrAlreadyAttached):
			return fiber.NewError(fiber.StatusConflict, "session already connected")
		default:
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
		}
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | session=%s error=%v", sess.ID, err)
			}
			h.sessions.Detach(sess)
			return
		}
		if h.logger != nil {
			h.logger.Printf("WS scene connected | session=%s layout=%s", sess.ID, sess.Layout)
		}
		newSceneConn(conn, sess, h.sessions, rate.NewLimiter(h.rate, h.burst), h.logger).start()
	})

	return fiberHandler(c)
}
