package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestClient_Login(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not carry a bearer token")
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "a@b.com" || body["password"] != "x" || body["role"] != "doctor" {
			t.Fatalf("unexpected body: %v", body)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"id": "u1", "role": "doctor"},
		})
	})

	result, err := client.Login(context.Background(), "a@b.com", "x", domain.RoleDoctor)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token != "tok-1" || result.User == nil || result.User.ID != "u1" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.RequiresPasswordCreation {
		t.Fatalf("password creation must not be flagged")
	}
}

func TestClient_Login_RequiresPasswordCreation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"requiresPasswordCreation": true})
	})

	result, err := client.Login(context.Background(), "a@b.com", "x", domain.RolePatient)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.RequiresPasswordCreation || result.Token != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClient_Login_FailureCarriesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "senha incorreta"})
	})

	_, err := client.Login(context.Background(), "a@b.com", "bad", domain.RoleAdmin)

	// No token was attached, so a 401 is a credentials failure and must not
	// be reported as a dead session.
	if errors.Is(err, domain.ErrTokenRejected) {
		t.Fatalf("credentials failure misreported as rejected token")
	}
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != http.StatusUnauthorized || ue.Message != "senha incorreta" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_BearerAttachedToAuthenticatedCalls(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("missing bearer header, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "role": "admin"})
	})

	user, err := client.CurrentUser(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != "u1" || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestClient_UnauthorizedWithTokenIsRejection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CurrentUser(context.Background(), "stale-token")
	if !errors.Is(err, domain.ErrTokenRejected) {
		t.Fatalf("expected ErrTokenRejected, got %v", err)
	}
}

func TestClient_RenewToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/renew-token" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer old" {
			t.Fatalf("renewal must carry the current token, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"newToken": "fresh"})
	})

	token, err := client.RenewToken(context.Background(), "old")
	if err != nil {
		t.Fatalf("RenewToken: %v", err)
	}
	if token != "fresh" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestClient_AvailableSlots(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments/available-slots" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("doctorId") != "d1" || q.Get("date") != "2026-09-15" {
			t.Fatalf("unexpected query: %v", q)
		}
		json.NewEncoder(w).Encode([]string{"09:00", "09:40", "10:20"})
	})

	slots, err := client.AvailableSlots(context.Background(), "tok", "d1", "2026-09-15")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 3 || slots[0] != "09:00" {
		t.Fatalf("unexpected slots: %v", slots)
	}
}

func TestClient_Doctor_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "doctor not found"})
	})

	_, err := client.Doctor(context.Background(), "tok", "missing")
	if !errors.Is(err, domain.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestClient_Lead_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "lead not found"})
	})

	_, err := client.Lead(context.Background(), "tok", "missing")
	if !errors.Is(err, domain.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestClient_ForgotPassword_MessageEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/forgot-password" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "account not found"})
	})

	err := client.ForgotPassword(context.Background(), "a@b.com", domain.RoleDoctor)

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Message != "account not found" {
		t.Fatalf("message envelope not decoded: %v", err)
	}
}

func TestMetricPath(t *testing.T) {
	cases := map[string]string{
		"/doctors/all":                  "/doctors/all",
		"/doctors/64fa12":               "/doctors/:id",
		"/leads/64fa12":                 "/leads/:id",
		"/leads/report/summary":         "/leads/report/summary",
		"/appointments/available-slots": "/appointments/available-slots",
		"/login":                        "/login",
	}
	for path, want := range cases {
		if got := metricPath(path); got != want {
			t.Fatalf("metricPath(%q) = %q, want %q", path, got, want)
		}
	}
}
