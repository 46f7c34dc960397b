package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/prospector/internal/config"
)

// RunRateLimiter applies a token bucket per listed route. Routes are matched
// against the registered echo path, so "/jobs/:id" and "/jobs" are distinct.
// Requests to other routes pass through.
func RunRateLimiter(cfg config.RateLimitConfig, paths ...string) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 || len(paths) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiters := make(map[string]*rate.Limiter, len(paths))
	for _, p := range paths {
		limiters[p] = rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter, ok := limiters[c.Path()]
			if !ok {
				return next(c)
			}
			if !limiter.Allow() {
				return deny(c, http.StatusTooManyRequests, "run rate limit exceeded")
			}
			return next(c)
		}
	}
}
