package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "fi_session"

const (
	ctxSessionKey   = "session"
	ctxSessionIDKey = "session_id"
)

// Session resolves the caller's session from the transport token (cookie for
// browsers, Authorization header for API clients) and injects it into the
// request context. Resolution failures leave the request unauthenticated and
// let the Guard decide; they are the expected path, not errors.
func Session(secret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			signed := transportToken(c)
			if signed == "" {
				return next(c)
			}

			sessionID, ok := verify(signed, secret)
			if !ok {
				return next(c)
			}
			c.Set(ctxSessionIDKey, sessionID)

			session, err := sessions.Current(c.Request().Context(), sessionID)
			if err != nil {
				return err
			}
			if session != nil {
				c.Set(ctxSessionKey, session)
			}
			return next(c)
		}
	}
}

// transportToken prefers the session cookie and falls back to a bearer header.
func transportToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// verify parses the HS256 transport token and extracts the session ID claim.
func verify(signed, secret string) (string, bool) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	sessionID, _ := claims["sid"].(string)
	return sessionID, sessionID != ""
}

// SessionFromContext returns the session the middleware resolved, or nil.
func SessionFromContext(c echo.Context) *domain.Session {
	session, _ := c.Get(ctxSessionKey).(*domain.Session)
	return session
}

// SessionIDFromContext returns the session ID named by the transport token
// even when the session itself could not be resolved (for logout).
func SessionIDFromContext(c echo.Context) string {
	sessionID, _ := c.Get(ctxSessionIDKey).(string)
	return sessionID
}
