package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

func guardContext(t *testing.T, target, accept string, session *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session != nil {
		c.Set("session", session)
	}
	return c, rec
}

func TestGuard_AllowsMatchingRole(t *testing.T) {
	session := &domain.Session{ID: "s1", User: &domain.User{Role: domain.RoleAdmin}}
	c, rec := guardContext(t, "/leads", "", session)

	called := false
	handler := Guard(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_WrongRoleRedirectsHome(t *testing.T) {
	session := &domain.Session{ID: "s1", User: &domain.User{Role: domain.RolePatient}}
	c, rec := guardContext(t, "/admin", "text/html", session)

	handler := Guard(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach protected content")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != HomePath {
		t.Fatalf("expected redirect to %s, got %s", HomePath, loc)
	}
}

func TestGuard_WrongRoleForbidsAPICall(t *testing.T) {
	session := &domain.Session{ID: "s1", User: &domain.User{Role: domain.RolePatient}}
	c, _ := guardContext(t, "/admin", "application/json", session)

	handler := Guard(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach protected content")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestGuard_UnauthenticatedRedirectsToLoginWithNext(t *testing.T) {
	c, rec := guardContext(t, "/admin/leads?page=2", "text/html", nil)

	handler := Guard(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach protected content")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fadmin%2Fleads%3Fpage%3D2" {
		t.Fatalf("attempted location not preserved: %s", loc)
	}
}

func TestGuard_UnauthenticatedAPICallGets401(t *testing.T) {
	c, _ := guardContext(t, "/leads", "application/json", nil)

	handler := Guard(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach protected content")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestGuard_SessionWithoutUserIsUnauthenticated(t *testing.T) {
	// A token entry that lost its user must not pass the guard.
	session := &domain.Session{ID: "s1", Token: "tok"}
	c, _ := guardContext(t, "/leads", "application/json", session)

	handler := Guard(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach protected content")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
