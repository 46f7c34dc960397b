// Package app assembles the qualification pipeline and its optional
// backing stores from configuration. Both the HTTP server and the CLI use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/database"
	"github.com/octobees/prospector/internal/export"
	"github.com/octobees/prospector/internal/fetcher"
	"github.com/octobees/prospector/internal/handler"
	"github.com/octobees/prospector/internal/metrics"
	"github.com/octobees/prospector/internal/repository"
	"github.com/octobees/prospector/internal/search"
	"github.com/octobees/prospector/internal/service"
	"github.com/octobees/prospector/internal/service/pipeline"
)

// App holds the wired components. Pool and Redis are nil when the
// corresponding address is not configured.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Pipeline
	Controller *pipeline.Controller
	Runs       *service.RunService
	Prospects  *service.ProspectsService
	Pool       *pgxpool.Pool
	Redis      *redis.Client
}

// New connects to the configured stores and builds the pipeline.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.NewPipeline()}

	searcher, err := search.New(cfg.SerperAPIKey,
		search.WithEndpoint(cfg.SerperEndpoint),
		search.WithLocale(cfg.SearchRegion, cfg.SearchLanguage),
	)
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}

	pages := fetcher.New(
		fetcher.WithTimeout(cfg.ScrapeTimeout),
		fetcher.WithRetryPolicy(fetcher.RetryPolicy{MaxAttempts: 2, Delay: cfg.ScrapeRetryDelay}),
		fetcher.WithRateLimit(cfg.ScrapeRatePerSec),
		fetcher.WithLogger(logger.Named("fetcher")),
		fetcher.WithMetrics(a.Metrics),
	)

	a.Controller = pipeline.New(searcher, pages,
		pipeline.WithOptions(pipeline.Options{
			PageSize:    cfg.SearchPageSize,
			BatchSize:   cfg.ScrapeBatchSize,
			Concurrency: cfg.ScrapeConcurrent,
			PhoneRegion: strings.ToUpper(cfg.SearchRegion),
		}),
		pipeline.WithLogger(logger.Named("pipeline")),
		pipeline.WithMetrics(a.Metrics),
	)

	opts := []service.RunOption{
		service.WithMaxTarget(cfg.MaxTargetCount),
		service.WithRunLogger(logger.Named("runs")),
		service.WithRunMetrics(a.Metrics),
	}

	if cfg.DatabaseURL != "" {
		a.Pool, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := repository.NewPGXProspectsRepository(a.Pool)
		opts = append(opts, service.WithProspects(repo))
		a.Prospects = service.NewProspectsService(repo)
	}

	if cfg.RedisAddr != "" {
		a.Redis, err = database.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, service.WithDomainHistory(repository.NewRedisDomainHistory(a.Redis, cfg.DomainHistoryTTL)))
	}

	if cfg.SheetWebhookURL != "" {
		sheets, err := export.NewSheetClient(nil, cfg.SheetWebhookURL)
		if err != nil && !errors.Is(err, export.ErrNoWebhook) {
			a.Close()
			return nil, fmt.Errorf("sheet exporter: %w", err)
		}
		if sheets != nil {
			opts = append(opts, service.WithExporter(sheets))
		}
	}

	a.Runs = service.NewRunService(a.Controller, opts...)
	return a, nil
}

// Checks returns a ping per configured store, keyed by name.
func (a *App) Checks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}
	if a.Pool != nil {
		checks["postgres"] = a.Pool.Ping
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close releases the store connections.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
}
