package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/repository"
	"github.com/octobees/prospector/internal/service"
)

// ProspectsHandler exposes persisted prospects.
type ProspectsHandler struct {
	service *service.ProspectsService
}

// NewProspectsHandler creates a new handler instance.
func NewProspectsHandler(service *service.ProspectsService) *ProspectsHandler {
	return &ProspectsHandler{service: service}
}

// List handles GET /prospects requests.
func (h *ProspectsHandler) List(c echo.Context) error {
	filter := dto.ProspectFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Domain:  strings.TrimSpace(c.QueryParam("domain")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if runIDParam := strings.TrimSpace(c.QueryParam("run_id")); runIDParam != "" {
		parsed, err := uuid.Parse(runIDParam)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid run_id")
		}
		filter.RunID = &parsed
	}

	if hasPhone := strings.TrimSpace(c.QueryParam("has_phone")); hasPhone != "" {
		parsed, err := strconv.ParseBool(hasPhone)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid has_phone")
		}
		filter.HasPhone = &parsed
	}

	prospects, err := h.service.ListProspects(c.Request().Context(), filter)
	if err != nil {
		return serviceError(c, err, "failed to list prospects")
	}

	return Success(c, http.StatusOK, "prospects retrieved", prospects)
}

// Get handles GET /prospects/:id requests.
func (h *ProspectsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid prospect id")
	}

	prospect, err := h.service.GetProspect(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProspectNotFound) {
			return Error(c, http.StatusNotFound, "prospect not found")
		}
		return serviceError(c, err, "failed to load prospect")
	}
	return Success(c, http.StatusOK, "prospect retrieved", prospect)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
