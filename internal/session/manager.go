package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"careerxr/internal/pkg/jwt"
	"careerxr/internal/scene"

	"github.com/google/uuid"
)

var (
	ErrTooManySessions = errors.New("too many scene sessions")
	ErrNotFound        = errors.New("scene session not found")
	ErrUnauthorized    = errors.New("scene session token rejected")
	ErrAlreadyAttached = errors.New("scene session already attached")
)

type Config struct {
	TickRate      int
	SnapshotEvery int
	MaxSessions   int
	IdleTimeout   time.Duration
	Scene         scene.Options
}

type Ticket struct {
	SessionID uuid.UUID
	Layout    string
	Token     string
	ExpiresAt time.Time
}

type Manager struct {
	layouts *scene.LayoutCatalog
	tokens  jwt.Service
	cfg     Config
	logger  *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(layouts *scene.LayoutCatalog, tokens jwt.Service, cfg Config, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}
	return &Manager{
		layouts:  layouts,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *Manager) Layouts() []scene.Layout {
	return m.layouts.All()
}

// Create builds a world for the layout and returns a ticket the client
// presents when it connects.
func (m *Manager) Create(layoutName string) (Ticket, error) {
	l, err := m.layouts.Get(layoutName)
	if err != nil {
		return Ticket{}, err
	}

	m.mu.Lock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return Ticket{}, ErrTooManySessions
	}
	id := uuid.New()
	opts := m.cfg.Scene
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	s := newSession(id, l, scene.NewWorld(l, opts), m.cfg.TickRate, m.cfg.SnapshotEvery, m.now())
	m.sessions[id] = s
	total := len(m.sessions)
	m.mu.Unlock()

	token, exp, err := m.tokens.GenerateSceneToken(id, l.Name)
	if err != nil {
		m.remove(id)
		return Ticket{}, fmt.Errorf("issue scene token: %w", err)
	}

	m.logger.Printf("[Scene] session created | id=%s layout=%s total=%d", id, l.Name, total)
	return Ticket{SessionID: id, Layout: l.Name, Token: token, ExpiresAt: exp}, nil
}

// Attach validates the token for a session and marks it owned by a connection.
// The caller runs the session and calls Detach when the connection closes.
func (m *Manager) Attach(id uuid.UUID, token string) (*Session, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.SessionID != id {
		return nil, ErrUnauthorized
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !s.attached.CompareAndSwap(false, true) {
		return nil, ErrAlreadyAttached
	}
	s.touch(m.now())
	return s, nil
}

// Detach ends the session. Worlds are not resumable once their client leaves.
func (m *Manager) Detach(s *Session) {
	if s == nil {
		return
	}
	s.close()
	m.remove(s.ID)
	m.logger.Printf("[Scene] session closed | id=%s layout=%s", s.ID, s.Layout)
}

func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Reap removes sessions with no input or connection activity within the idle
// timeout and returns how many were removed.
func (m *Manager) Reap() int {
	cutoff := m.now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
		m.logger.Printf("[Scene] session reaped | id=%s layout=%s idle_since=%s", s.ID, s.Layout, s.LastSeen().UTC().Format(time.RFC3339))
	}
	return len(stale)
}

// Run reaps idle sessions until ctx ends, then closes the rest.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.cfg.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return nil
		case <-ticker.C:
			m.Reap()
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
