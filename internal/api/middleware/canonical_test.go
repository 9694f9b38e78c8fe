package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestCanonicalHost_RedirectsOffDomainRequests(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin?tab=leads", nil)
	req.Host = "old.fonoinova.com.br"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := CanonicalHost("app.fonoinova.com.br")(func(c echo.Context) error {
		t.Fatalf("should not render before the canonical redirect")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://app.fonoinova.com.br/admin?tab=leads" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestCanonicalHost_PassesMatchingHost(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "app.fonoinova.com.br"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := CanonicalHost("app.fonoinova.com.br")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestCanonicalHost_DisabledWhenUnset(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "anything.example"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := CanonicalHost("")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}
