package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/export"
	"github.com/octobees/prospector/internal/metrics"
	"github.com/octobees/prospector/internal/repository"
	"github.com/octobees/prospector/internal/service/candidate"
	"github.com/octobees/prospector/internal/service/pipeline"
)

// Runner executes one pipeline run. *pipeline.Controller satisfies it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Stage names reported through ProgressFunc.
const (
	StageSearching = "searching"
	StageSaving    = "saving"
)

// ProgressFunc receives stage transitions during Execute. It may be nil.
type ProgressFunc func(stage string)

// RunReport is what a completed run hands back to callers.
type RunReport struct {
	Run            entity.Run                  `json:"run"`
	Records        []entity.VerificationRecord `json:"records"`
	Counts         pipeline.Counts             `json:"counts"`
	SpreadsheetURL string                      `json:"spreadsheet_url,omitempty"`
	ExportError    string                      `json:"export_error,omitempty"`
}

// RunService wraps the controller with cross-run dedup, persistence and export.
type RunService struct {
	runner    Runner
	prospects repository.ProspectsRepository
	history   repository.DomainHistory
	exporter  export.Exporter
	maxTarget int
	logger    *zap.Logger
	metrics   *metrics.Pipeline
	now       func() time.Time
}

// RunOption configures optional collaborators of a RunService.
type RunOption func(*RunService)

// WithProspects persists runs and seeds dedup from stored prospects.
func WithProspects(repo repository.ProspectsRepository) RunOption {
	return func(s *RunService) { s.prospects = repo }
}

// WithDomainHistory seeds dedup from, and records delivered domains into, history.
func WithDomainHistory(history repository.DomainHistory) RunOption {
	return func(s *RunService) { s.history = history }
}

// WithExporter exports confirmed companies after each run.
func WithExporter(exporter export.Exporter) RunOption {
	return func(s *RunService) { s.exporter = exporter }
}

// WithMaxTarget caps target_count; zero disables the cap.
func WithMaxTarget(n int) RunOption {
	return func(s *RunService) { s.maxTarget = n }
}

// WithRunLogger attaches a logger.
func WithRunLogger(logger *zap.Logger) RunOption {
	return func(s *RunService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRunMetrics records run outcomes.
func WithRunMetrics(m *metrics.Pipeline) RunOption {
	return func(s *RunService) { s.metrics = m }
}

// NewRunService creates a new instance of RunService.
func NewRunService(runner Runner, opts ...RunOption) *RunService {
	s := &RunService{runner: runner, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks a run request without executing it.
func (s *RunService) Validate(req dto.RunRequest) error {
	_, err := normalizeRunRequest(req, s.maxTarget)
	return err
}

// Execute runs the pipeline for req. Failures to read dedup sources or to
// export are logged and tolerated; a failure to persist the run is returned.
func (s *RunService) Execute(ctx context.Context, req dto.RunRequest, progress ProgressFunc) (RunReport, error) {
	req, err := normalizeRunRequest(req, s.maxTarget)
	if err != nil {
		return RunReport{}, err
	}
	if progress == nil {
		progress = func(string) {}
	}

	run := entity.Run{
		ID:          uuid.New(),
		Keyword:     req.Keyword,
		Queries:     req.Queries,
		TargetCount: req.TargetCount,
		StartedAt:   s.now(),
	}
	logger := s.logger.With(zap.String("run_id", run.ID.String()), zap.String("keyword", run.Keyword))

	seen := s.seenDomains(ctx, logger)
	logger.Info("run started", zap.Int("queries", len(req.Queries)), zap.Int("target", req.TargetCount), zap.Int("seen_domains", len(seen)))

	progress(StageSearching)
	result, err := s.runner.Run(ctx, pipeline.Request{
		Queries:     req.Queries,
		TargetCount: req.TargetCount,
		SeenDomains: seen,
		Exclusions:  candidate.Exclusions{Domains: req.ExcludeDomains},
		Keyword:     req.Keyword,
	})
	if err != nil {
		s.metrics.ObserveRun("failed")
		return RunReport{}, fmt.Errorf("run pipeline: %w", err)
	}

	progress(StageSaving)
	report := RunReport{Records: result.Confirmed, Counts: result.Counts}

	if s.exporter != nil && !req.SkipExport && len(result.Confirmed) > 0 {
		url, err := s.exporter.SaveResults(ctx, req.Keyword, result.Confirmed)
		if err != nil {
			logger.Warn("export failed", zap.Error(err))
			report.ExportError = err.Error()
		} else {
			report.SpreadsheetURL = url
		}
	}

	finished := s.now()
	run.Searched = result.Counts.Searched
	run.Candidates = result.Counts.Candidates
	run.Verified = result.Counts.Verified
	run.Confirmed = result.Counts.Confirmed
	run.FinishedAt = &finished
	if report.SpreadsheetURL != "" {
		run.SpreadsheetURL = &report.SpreadsheetURL
	}
	report.Run = run

	if s.prospects != nil {
		saved, err := s.prospects.SaveRun(ctx, &run, result.Confirmed)
		if err != nil {
			s.metrics.ObserveRun("failed")
			return report, fmt.Errorf("save run: %w", err)
		}
		logger.Info("run saved", zap.Int("inserted", saved.Inserted), zap.Int("updated", saved.Updated))
	}

	if s.history != nil {
		domains := make([]string, 0, len(result.Confirmed))
		for _, rec := range result.Confirmed {
			domains = append(domains, rec.Domain)
		}
		if err := s.history.Remember(ctx, domains); err != nil {
			logger.Warn("remember domains failed", zap.Error(err))
		}
	}

	s.metrics.ObserveRun("completed")
	logger.Info("run completed",
		zap.Int("confirmed", run.Confirmed),
		zap.Duration("elapsed", finished.Sub(run.StartedAt)),
	)
	return report, nil
}

func (s *RunService) seenDomains(ctx context.Context, logger *zap.Logger) []string {
	var seen []string
	if s.prospects != nil {
		domains, err := s.prospects.ExistingDomains(ctx)
		if err != nil {
			logger.Warn("load stored domains failed", zap.Error(err))
		}
		seen = append(seen, domains...)
	}
	if s.history != nil {
		domains, err := s.history.All(ctx)
		if err != nil {
			logger.Warn("load domain history failed", zap.Error(err))
		}
		seen = append(seen, domains...)
	}
	if s.exporter != nil {
		domains, err := s.exporter.ExistingDomains(ctx)
		if err != nil {
			logger.Warn("load exported domains failed", zap.Error(err))
		}
		seen = append(seen, domains...)
	}
	return seen
}
