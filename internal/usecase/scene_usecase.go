package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"careerxr/internal/infrastructure/events"
	"careerxr/internal/scene"
	"careerxr/internal/session"
)

type SceneSessions interface {
	Layouts() []scene.Layout
	Create(layout string) (session.Ticket, error)
}

type SceneUsecase interface {
	ListLayouts(ctx context.Context) []scene.Layout
	CreateSession(ctx context.Context, layout string) (session.Ticket, error)
}

type Scene struct {
	sessions  SceneSessions
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

func NewSceneUsecase(sessions SceneSessions, publisher events.Publisher, logger *log.Logger) *Scene {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Scene{sessions: sessions, publisher: publisher, logger: logger, now: time.Now}
}

func (u *Scene) ListLayouts(context.Context) []scene.Layout {
	return u.sessions.Layouts()
}

func (u *Scene) CreateSession(ctx context.Context, layout string) (session.Ticket, error) {
	if layout == "" {
		return session.Ticket{}, ErrInvalidInput
	}
	ticket, err := u.sessions.Create(layout)
	switch {
	case err == nil:
	case errors.Is(err, scene.ErrUnknownLayout):
		return session.Ticket{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, session.ErrTooManySessions):
		return session.Ticket{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		if u.logger != nil {
			u.logger.Printf("[Scene] create failed | layout=%s err=%v", layout, err)
		}
		return session.Ticket{}, ErrInternal
	}

	evt := events.SessionStarted{
		SessionID: ticket.SessionID.String(),
		Layout:    ticket.Layout,
		StartedAt: u.now().UTC(),
	}
	if err := u.publisher.Publish(ctx, events.SubjectSessionStarted, evt); err != nil && u.logger != nil {
		u.logger.Printf("[Scene] publish failed | session_id=%s err=%v", ticket.SessionID, err)
	}
	return ticket, nil
}
