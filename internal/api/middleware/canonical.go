package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CanonicalHost issues a permanent redirect to the canonical domain before
// any route renders. Requests already on the canonical host, and all requests
// when no canonical host is configured, pass through untouched.
func CanonicalHost(host string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if host == "" || c.Request().Host == host {
				return next(c)
			}

			target := c.Scheme() + "://" + host + c.Request().URL.RequestURI()
			return c.Redirect(http.StatusMovedPermanently, target)
		}
	}
}
