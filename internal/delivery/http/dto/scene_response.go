package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Layout string `json:"layout" validate:"required,max=64"`
}

type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Layout    string    `json:"layout"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	SocketURL string    `json:"socket_url"`
}

type LayoutResponse struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	CameraMode string   `json:"camera_mode"`
	Walls      int      `json:"walls"`
	Doors      []string `json:"doors"`
	Clips      []string `json:"clips"`
}

type ReloadResponse struct {
	Source    string    `json:"source"`
	Skills    int       `json:"skills"`
	Jobs      int       `json:"jobs"`
	Swapped   bool      `json:"swapped"`
	Persisted bool      `json:"persisted"`
	LoadedAt  time.Time `json:"loaded_at"`
}
