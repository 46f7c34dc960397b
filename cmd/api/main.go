package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/app"
	"github.com/octobees/prospector/internal/auth"
	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/handler"
	middlewarepkg "github.com/octobees/prospector/internal/middleware"
	"github.com/octobees/prospector/internal/router"
	"github.com/octobees/prospector/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build pipeline", zap.Error(err))
	}
	defer a.Close()

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	jobs := service.NewJobManager(jobsCtx, a.Runs, 24*time.Hour, logger.Named("jobs"))
	go pruneJobs(jobsCtx, jobs, time.Hour)

	handlers := router.Handlers{
		Health: handler.NewHealthHandler(a.Checks()),
		Runs:   handler.NewRunsHandler(a.Runs),
		Jobs:   handler.NewJobsHandler(jobs),
		Scrape: handler.NewScrapeHandler(a.Controller),
	}
	if a.Prospects != nil {
		handlers.Prospects = handler.NewProspectsHandler(a.Prospects)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger.Named("http")))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL), handlers, a.Metrics.Registry)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	stopJobs()
	jobs.Wait()
}

func pruneJobs(ctx context.Context, jobs *service.JobManager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jobs.Cleanup()
		}
	}
}
