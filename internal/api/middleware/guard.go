package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kaduart/fono-inova-gateway/internal/api/metrics"
	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

const (
	// LoginPath is where unauthenticated navigations are sent, carrying the
	// attempted location so login can return the user there.
	LoginPath = "/login"
	// HomePath is where authenticated users with the wrong role are sent.
	// No notice accompanies this: it is a routing decision, not a user error.
	HomePath = "/"
)

// Guard gates a route on authentication and role membership. It is a pure
// decision over (session, allowedRoles, request):
//
//   - no session      → redirect to login with ?next=<attempted path>
//   - role not listed → redirect home (authorization, not authentication)
//   - otherwise       → pass through unchanged
//
// Browser navigations get 302 redirects; API callers get 401/403 JSON.
func Guard(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFromContext(c)

			if !session.Authenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues("login_redirect").Inc()
				if WantsHTML(c) {
					return c.Redirect(http.StatusFound, LoginRedirect(c))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			if _, ok := allowed[session.Role()]; !ok {
				metrics.GuardDecisionsTotal.WithLabelValues("home_redirect").Inc()
				if WantsHTML(c) {
					return c.Redirect(http.StatusFound, HomePath)
				}
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}

// LoginRedirect preserves the attempted location for the post-login return.
func LoginRedirect(c echo.Context) string {
	next := c.Request().URL.RequestURI()
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// WantsHTML distinguishes browser navigations from API calls.
func WantsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}
