package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/todo-webapp/internal/api/session"
)

// RequireUser redirects anonymous requests to the login page. Handlers behind
// it can read the identity from the session state without re-checking.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := session.FromContext(c).UserID(); !ok {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}
