package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octobees/prospector/internal/config"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	entries := logs.FilterField(zap.String("request_id", "rid-123")).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry with request id, got %d", len(entries))
	}
	if fields := entries[0].ContextMap(); fields["status"] != int64(http.StatusOK) || fields["path"] != "/healthz" {
		t.Fatalf("unexpected fields %v", fields)
	}

	// ensure errors are propagated and logged
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(logger)(func(c echo.Context) error {
		return expected
	})(c)
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
	failed := logs.FilterMessage("request failed").All()
	if len(failed) != 1 || failed[0].ContextMap()["request_id"] != "rid-456" {
		t.Fatalf("expected failed request entry, got %v", failed)
	}
}

func serve(mw echo.MiddlewareFunc, method, path string) int {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec.Code
}

func TestRunRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Second}
	mw := RunRateLimiter(cfg, "/runs", "/jobs")

	if code := serve(mw, http.MethodPost, "/runs"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := serve(mw, http.MethodPost, "/runs"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", code)
	}
	// each route has its own bucket
	if code := serve(mw, http.MethodPost, "/jobs"); code != http.StatusOK {
		t.Fatalf("expected /jobs to pass, got %d", code)
	}
	if code := serve(mw, http.MethodGet, "/healthz"); code != http.StatusOK {
		t.Fatalf("expected unlisted route to pass, got %d", code)
	}

	mw = RunRateLimiter(config.RateLimitConfig{}, "/runs")
	for i := 0; i < 3; i++ {
		if code := serve(mw, http.MethodPost, "/runs"); code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled, got %d", code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	mw := RequireRole("operator", "viewer")

	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "missing role", want: http.StatusForbidden},
		{name: "incorrect role", role: "guest", want: http.StatusForbidden},
		{name: "operator", role: "operator", want: http.StatusOK},
		{name: "viewer", role: "viewer", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != "" {
				c.Set(ContextKeyRole, tt.role)
			}

			called := false
			if err := mw(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if called != (tt.want == http.StatusOK) {
				t.Fatalf("unexpected handler invocation: %v", called)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			rid := RequestIDFromContext(c)
			if rid == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})
	t.Run("replace unsafe header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "bad id\nwith newline")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := rec.Header().Get("X-Request-ID"); got == "" || strings.Contains(got, " ") {
			t.Fatalf("expected generated request id, got %q", got)
		}
	})
}

func TestLoggingMiddlewareRenderedError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/runs", nil), rec)

	err := Logging(zap.New(core))(func(c echo.Context) error {
		c.Set(ContextKeyError, errors.New("db down"))
		return c.NoContent(http.StatusInternalServerError)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := logs.FilterMessage("request failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["error"] != "db down" {
		t.Fatalf("expected rendered error to be logged, got %v", logs.All())
	}
}
