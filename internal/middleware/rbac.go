package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the token role is one of roles.
// It must run after JWT.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextKeyRole).(string)
			switch {
			case role == "":
				return deny(c, http.StatusForbidden, "missing role")
			case !slices.Contains(roles, role):
				return deny(c, http.StatusForbidden, "role "+role+" may not access this route")
			}
			return next(c)
		}
	}
}
