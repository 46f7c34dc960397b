package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/auth"
	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/handler"
	"github.com/octobees/prospector/internal/metrics"
	"github.com/octobees/prospector/internal/service"
)

type nopRuns struct{}

func (nopRuns) Execute(ctx context.Context, req dto.RunRequest, progress service.ProgressFunc) (service.RunReport, error) {
	return service.RunReport{}, nil
}

type nopJobs struct{}

func (nopJobs) Submit(req dto.RunRequest) (service.Job, error) {
	return service.Job{ID: uuid.New(), Status: service.JobPending}, nil
}

func (nopJobs) Get(id uuid.UUID) (service.Job, error) {
	return service.Job{}, service.ErrJobNotFound
}

type nopScraper struct{}

func (nopScraper) Scrape(ctx context.Context, companies []entity.Candidate) []entity.VerificationRecord {
	return nil
}

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTManager) {
	t.Helper()
	cfg := &config.Config{RateLimitRuns: config.RateLimitConfig{Requests: 1, Interval: time.Minute}}
	manager := auth.NewJWTManager("secret", time.Hour)

	e := echo.New()
	Register(e, cfg, manager, Handlers{
		Health: handler.NewHealthHandler(nil),
		Runs:   handler.NewRunsHandler(nopRuns{}),
		Jobs:   handler.NewJobsHandler(nopJobs{}),
		Scrape: handler.NewScrapeHandler(nopScraper{}),
	}, metrics.NewPipeline().Registry)
	return e, manager
}

func TestRegister(t *testing.T) {
	e, manager := newTestServer(t)

	operator, err := manager.GenerateToken("ops", auth.RoleOperator)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	viewer, err := manager.GenerateToken("reader", auth.RoleViewer)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	steps := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{name: "health is public", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "metrics is public", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "runs need a token", method: http.MethodPost, path: "/runs", body: `{"keyword":"x"}`, want: http.StatusUnauthorized},
		{name: "viewer cannot run", method: http.MethodPost, path: "/runs", token: viewer, body: `{"keyword":"x"}`, want: http.StatusForbidden},
		{name: "operator runs", method: http.MethodPost, path: "/runs", token: operator, body: `{"keyword":"x"}`, want: http.StatusOK},
		{name: "second run is limited", method: http.MethodPost, path: "/runs", token: operator, body: `{"keyword":"x"}`, want: http.StatusTooManyRequests},
		{name: "jobs have their own bucket", method: http.MethodPost, path: "/jobs", token: operator, body: `{"keyword":"x"}`, want: http.StatusAccepted},
		{name: "viewer reads jobs", method: http.MethodGet, path: "/jobs/" + uuid.NewString(), token: viewer, want: http.StatusNotFound},
	}

	for _, step := range steps {
		var req *http.Request
		if step.body != "" {
			req = httptest.NewRequest(step.method, step.path, strings.NewReader(step.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		} else {
			req = httptest.NewRequest(step.method, step.path, nil)
		}
		if step.token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+step.token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != step.want {
			t.Fatalf("%s: expected %d, got %d (%s)", step.name, step.want, rec.Code, rec.Body.String())
		}
	}
}
