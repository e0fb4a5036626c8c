package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careerxr/internal/delivery/http/middleware"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/recommend"
	"careerxr/internal/scene"
	"careerxr/internal/session"
	"careerxr/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

type fakeCatalogUC struct{}

func (fakeCatalogUC) ListSkills(context.Context) []string { return []string{"Java", "SQL"} }
func (fakeCatalogUC) ListJobs(_ context.Context, industry string) []job.Job {
	if industry != "" && industry != "Information Technology" {
		return nil
	}
	return []job.Job{{ID: uuid.New(), Title: "Software Developer", Industry: "Information Technology", Skills: []string{"Java"}}}
}
func (fakeCatalogUC) ListIndustries(context.Context) []job.IndustryCount {
	return []job.IndustryCount{{Industry: "Information Technology", Jobs: 1}}
}
func (fakeCatalogUC) IndustrySkills(_ context.Context, industry string) ([]string, error) {
	if industry == "Healthcare" {
		return []string{"Patient Care"}, nil
	}
	return nil, usecase.ErrNotFound
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(func(r fiber.Router) {
		NewSkillHandler(fakeCatalogUC{}).RegisterRoutes(r)
		NewJobsHandler(fakeCatalogUC{}).RegisterRoutes(r)
	})

	resp, env := doJSON(t, app, http.MethodGet, "/skills", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["Java","SQL"]`, string(env.Data))

	resp, env = doJSON(t, app, http.MethodGet, "/jobs?industry=Healthcare", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))

	resp, env = doJSON(t, app, http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Software Developer", jobs[0]["title"])

	resp, env = doJSON(t, app, http.MethodGet, "/industries", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"industry":"Information Technology","jobs":1}]`, string(env.Data))

	resp, _ = doJSON(t, app, http.MethodGet, "/industries/Healthcare/skills", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, env = doJSON(t, app, http.MethodGet, "/industries/Mining/skills", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Industry not found", env.Message)
}

type fakeRecommendationUC struct {
	got usecase.RecommendationParams
	err error
}

func (f *fakeRecommendationUC) Recommend(_ context.Context, p usecase.RecommendationParams) (usecase.RecommendationResult, error) {
	f.got = p
	if f.err != nil {
		return usecase.RecommendationResult{}, f.err
	}
	item := usecase.RecommendedJob{
		JobID: uuid.New(), Title: "Software Developer", Industry: "Information Technology", Score: 1, Overlap: 2,
		Matched: []string{"Java", "SQL"}, Missing: []string{},
		Experiences: []recommend.Experience{{Name: "Beginner World", Layout: "studio", Level: recommend.LevelJunior}},
	}
	return usecase.RecommendationResult{
		Selected: []string{"java", "sql"}, Mode: recommend.ModeRatio, Threshold: 0.6, Level: recommend.LevelJunior,
		Jobs:   []usecase.RecommendedJob{item},
		Groups: []usecase.RecommendedGroup{{Industry: "Information Technology", BestScore: 1, Jobs: []usecase.RecommendedJob{item}}},
	}, nil
}

func TestRecommendationHandler(t *testing.T) {
	uc := &fakeRecommendationUC{}
	app := newTestApp(NewRecommendationHandler(uc).RegisterRoutes)

	resp, env := doJSON(t, app, http.MethodPost, "/recommendations", `{"skills":["Java","SQL"],"group_by_industry":true,"threshold":0.5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	assert.Equal(t, []string{"Java", "SQL"}, uc.got.Skills)
	require.NotNil(t, uc.got.Threshold)
	assert.Equal(t, 0.5, *uc.got.Threshold)

	var body struct {
		Recommendations []map[string]any `json:"recommendations"`
		Groups          []map[string]any `json:"groups"`
		Level           string           `json:"level"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "Software Developer", body.Recommendations[0]["title"])
	assert.Len(t, body.Groups, 1)
	assert.Equal(t, "junior", body.Level)
}

func TestRecommendationHandler_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"missing skills", `{}`, nil, http.StatusBadRequest},
		{"bad mode", `{"skills":["Java"],"mode":"weighted"}`, nil, http.StatusBadRequest},
		{"negative threshold", `{"skills":["Java"],"threshold":-1}`, nil, http.StatusBadRequest},
		{"malformed", `{"skills":`, nil, http.StatusBadRequest},
		{"too few", `{"skills":[]}`, fmt.Errorf("%w: %w", usecase.ErrSelectionBounds, recommend.ErrSelectionTooSmall), http.StatusUnprocessableEntity},
		{"too many", `{"skills":["a","b","c","d","e","f"]}`, fmt.Errorf("%w: %w", usecase.ErrSelectionBounds, recommend.ErrSelectionTooLarge), http.StatusUnprocessableEntity},
		{"internal", `{"skills":["Java"]}`, usecase.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(NewRecommendationHandler(&fakeRecommendationUC{err: tc.err}).RegisterRoutes)
			resp, env := doJSON(t, app, http.MethodPost, "/recommendations", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.status, env.Status)
		})
	}
}

type fakeReloadUC struct {
	res usecase.ReloadResult
	err error
}

func (f fakeReloadUC) Reload(context.Context) (usecase.ReloadResult, error) { return f.res, f.err }

func TestAdminHandler(t *testing.T) {
	app := newTestApp(NewAdminHandler(fakeReloadUC{res: usecase.ReloadResult{Source: "jobs.csv", Jobs: 3, Swapped: true}}).RegisterRoutes)
	resp, env := doJSON(t, app, http.MethodPost, "/catalog/reload", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Catalog reloaded", env.Message)

	app = newTestApp(NewAdminHandler(fakeReloadUC{err: usecase.ErrReloadInProgress}).RegisterRoutes)
	resp, _ = doJSON(t, app, http.MethodPost, "/catalog/reload", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

type fakeSceneUC struct {
	err error
}

func (f fakeSceneUC) ListLayouts(context.Context) []scene.Layout {
	return []scene.Layout{{
		Name:  "environment-two",
		Doors: []scene.DoorSpec{{Name: "workshop"}},
		Model: &scene.Model{Clips: []string{"idle", "walk"}},
	}}
}

func (f fakeSceneUC) CreateSession(_ context.Context, layout string) (session.Ticket, error) {
	if f.err != nil {
		return session.Ticket{}, f.err
	}
	return session.Ticket{SessionID: uuid.New(), Layout: layout, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func TestSceneHandler(t *testing.T) {
	app := newTestApp(NewSceneHandler(fakeSceneUC{}).RegisterRoutes)

	resp, env := doJSON(t, app, http.MethodGet, "/scenes/layouts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var layouts []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &layouts))
	require.Len(t, layouts, 1)
	assert.Equal(t, "follow", layouts[0]["camera_mode"])
	assert.Equal(t, []any{"workshop"}, layouts[0]["doors"])

	resp, env = doJSON(t, app, http.MethodPost, "/scenes/sessions", `{"layout":"studio"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "studio", created["layout"])
	assert.Contains(t, created["socket_url"], "?token=tok")

	resp, _ = doJSON(t, app, http.MethodPost, "/scenes/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	app = newTestApp(NewSceneHandler(fakeSceneUC{err: usecase.ErrNotFound}).RegisterRoutes)
	resp, _ = doJSON(t, app, http.MethodPost, "/scenes/sessions", `{"layout":"attic"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	app = newTestApp(NewSceneHandler(fakeSceneUC{err: usecase.ErrUnavailable}).RegisterRoutes)
	resp, _ = doJSON(t, app, http.MethodPost, "/scenes/sessions", `{"layout":"studio"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

type fakeStats struct{}

func (fakeStats) CatalogJobs() int    { return 3 }
func (fakeStats) ActiveSessions() int { return 1 }

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(fakeStats{}, map[string]Pinger{
		"postgres": nil,
		"redis":    pingFunc(func(context.Context) error { return errors.New("refused") }),
		"nats":     pingFunc(func(context.Context) error { return nil }),
	})
	app := newTestApp(h.RegisterRoutes)

	resp, env := doJSON(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"catalog_jobs":3,"active_sessions":1,"backends":{"postgres":"disabled","redis":"down","nats":"ok"}}`, string(env.Data))
}
