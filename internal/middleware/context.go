package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store request metadata.
const (
	ContextKeySubject   = "subject"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"
	// ContextKeyError carries an error a handler already rendered as a response.
	ContextKeyError = "handler_error"
)

// deny writes the API error envelope. The handler package owns the envelope
// type but imports this package, so the shape is repeated here.
func deny(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}
