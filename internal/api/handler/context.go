package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/kaduart/fono-inova-gateway/internal/api/middleware"
	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// ctxSession extracts the session resolved by the Session middleware and
// fast-fails before any upstream call when none is present. Guarded routes
// never reach this, but handlers stay safe if mounted without a guard.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session := apimw.SessionFromContext(c)
	if !session.Authenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return session, nil
}

// upstreamFailure translates an upstream error for a proxied call. A rejected
// token means the session is dead: it is destroyed here so the next request
// lands on the login redirect, matching the 401-interception behavior.
func upstreamFailure(c echo.Context, sessions ports.SessionService, err error) error {
	if errors.Is(err, domain.ErrTokenRejected) {
		if sessionID := apimw.SessionIDFromContext(c); sessionID != "" {
			_ = sessions.Destroy(c.Request().Context(), sessionID)
		}
	}
	return err
}
