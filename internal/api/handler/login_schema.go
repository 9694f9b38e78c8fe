package handler

import (
	"time"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// rememberCookieAge matches the durable token-store tier; the session-scoped
// tier uses a browser-session cookie with no explicit age.
const rememberCookieAge = 30 * 24 * time.Hour

// --- Request / Response types for the login flow ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=admin doctor patient professional"`
	Remember bool   `json:"remember"`
	Next     string `json:"next"`
}

type createPasswordRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role"            validate:"required,oneof=admin doctor patient professional"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=admin doctor patient professional"`
}

// loginResponse reports the resulting flow mode plus, when authenticated, the
// session user and the redirect target (the originally requested path or the
// role's landing page).
type loginResponse struct {
	Mode     string       `json:"mode"`
	Notice   string       `json:"notice,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
	User     *domain.User `json:"user,omitempty"`
}

// sessionResponse is the "who am I" shape. An unauthenticated caller gets
// {authenticated: false} with a 200; that is the expected path, not an error.
type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}
