package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/middleware"
	"github.com/octobees/prospector/internal/service"
)

// APIResponse is the envelope every endpoint responds with. RequestID echoes
// the X-Request-ID so that a failed run can be found in the logs.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respond(c echo.Context, status int, payload APIResponse) error {
	payload.RequestID = middleware.RequestIDFromContext(c)
	return c.JSON(status, payload)
}

// Success sends data with status, defaulting to 200.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return respond(c, status, APIResponse{Status: "success", Message: message, Data: data})
}

// Error sends message with status, defaulting to 500.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return respond(c, status, APIResponse{Status: "error", Message: message})
}

// serviceError maps validation failures to 400 and everything else to 500
// with a generic message. The underlying error is left for the request logger.
func serviceError(c echo.Context, err error, fallback string) error {
	var validationErr service.ValidationError
	if errors.As(err, &validationErr) {
		return Error(c, http.StatusBadRequest, validationErr.Error())
	}
	c.Set(middleware.ContextKeyError, err)
	return Error(c, http.StatusInternalServerError, fallback)
}
