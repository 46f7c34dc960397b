package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/prospector/internal/auth"
	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/handler"
	middlewarepkg "github.com/octobees/prospector/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health    *handler.HealthHandler
	Runs      *handler.RunsHandler
	Jobs      *handler.JobsHandler
	Scrape    *handler.ScrapeHandler
	Prospects *handler.ProspectsHandler
}

// Register wires all HTTP routes for the API. Prospect routes are only
// mounted when a database is configured.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handlers.Health.Check)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	limiter := middlewarepkg.RunRateLimiter(cfg.RateLimitRuns, "/runs", "/jobs", "/scrape", "/scrape/upload")
	operator := secured.Group("", middlewarepkg.RequireRole(auth.RoleOperator), limiter)
	operator.POST("/runs", handlers.Runs.Create)
	operator.POST("/jobs", handlers.Jobs.Create)
	operator.POST("/scrape", handlers.Scrape.Scrape)
	operator.POST("/scrape/upload", handlers.Scrape.UploadCSV)

	readers := secured.Group("", middlewarepkg.RequireRole(auth.RoleOperator, auth.RoleViewer))
	readers.GET("/jobs/:id", handlers.Jobs.Get)
	if handlers.Prospects != nil {
		readers.GET("/prospects", handlers.Prospects.List)
		readers.GET("/prospects/:id", handlers.Prospects.Get)
	}
}
