package middleware

import "github.com/labstack/echo/v4"

// NoCache stamps every response with cache-disabling headers so browsers
// never serve a stale task list or a logged-out page from cache.
func NoCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			return next(c)
		}
	}
}
