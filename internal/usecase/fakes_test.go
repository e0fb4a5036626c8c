package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"careerxr/internal/infrastructure/cache"
	"careerxr/internal/scene"
	"careerxr/internal/session"

	"github.com/google/uuid"
)

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	locks       map[string]bool
	invalidated int
	// beforeSet runs once, ahead of the next SetJSON write.
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	delete(c.locks, key)
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *fakeCache) InvalidateRecommendations(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	for k := range c.data {
		if strings.HasPrefix(k, cache.KeyPrefixRecommend) {
			delete(c.data, k)
		}
	}
	return nil
}

type published struct {
	subject string
	payload any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, subject string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{subject: subject, payload: v})
	return p.err
}

func (p *fakePublisher) Close() {}

type fakeNotifier struct {
	calls int
	jobs  int
}

func (n *fakeNotifier) NotifyCatalogUpdated(_ string, _ int, jobs int) {
	n.calls++
	n.jobs = jobs
}

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.body, f.err
}

var errFakeSessions = errors.New("boom")

type fakeSessions struct {
	layouts []scene.Layout
	err     error
	created []string
}

func (s *fakeSessions) Layouts() []scene.Layout { return s.layouts }

func (s *fakeSessions) Create(layout string) (session.Ticket, error) {
	if s.err != nil {
		return session.Ticket{}, s.err
	}
	s.created = append(s.created, layout)
	return session.Ticket{SessionID: uuid.New(), Layout: layout, Token: "token", ExpiresAt: time.Now().Add(time.Minute)}, nil
}
