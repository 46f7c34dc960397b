package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/service"
)

// JobQueue starts runs in the background and reports on them.
type JobQueue interface {
	Submit(req dto.RunRequest) (service.Job, error)
	Get(id uuid.UUID) (service.Job, error)
}

// JobsHandler exposes asynchronous pipeline runs.
type JobsHandler struct {
	jobs JobQueue
}

// NewJobsHandler creates a new handler instance.
func NewJobsHandler(jobs JobQueue) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// Create handles POST /jobs requests.
func (h *JobsHandler) Create(c echo.Context) error {
	var req dto.RunRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	job, err := h.jobs.Submit(req)
	if err != nil {
		return serviceError(c, err, "failed to start job")
	}
	c.Response().Header().Set(echo.HeaderLocation, "/jobs/"+job.ID.String())
	return Success(c, http.StatusAccepted, "job accepted", job)
}

// Get handles GET /jobs/:id requests.
func (h *JobsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "job not found")
		}
		return serviceError(c, err, "failed to load job")
	}
	return Success(c, http.StatusOK, "job retrieved", job)
}

var _ JobQueue = (*service.JobManager)(nil)
