package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/service"
)

// RunExecutor runs the pipeline synchronously.
type RunExecutor interface {
	Execute(ctx context.Context, req dto.RunRequest, progress service.ProgressFunc) (service.RunReport, error)
}

// RunsHandler exposes synchronous pipeline runs.
type RunsHandler struct {
	runs RunExecutor
}

// NewRunsHandler creates a new handler instance.
func NewRunsHandler(runs RunExecutor) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// Create handles POST /runs requests. The response is sent once the run,
// including persistence and export, has finished.
func (h *RunsHandler) Create(c echo.Context) error {
	var req dto.RunRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	report, err := h.runs.Execute(c.Request().Context(), req, nil)
	if err != nil {
		return serviceError(c, err, "run failed")
	}
	return Success(c, http.StatusOK, "run completed", report)
}

var _ RunExecutor = (*service.RunService)(nil)
