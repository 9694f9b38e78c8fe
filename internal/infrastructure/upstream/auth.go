package upstream

import (
	"context"
	"net/http"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

type loginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type loginResponse struct {
	Token                    string       `json:"token"`
	User                     *domain.User `json:"user"`
	RequiresPasswordCreation bool         `json:"requiresPasswordCreation"`
}

// Login submits credentials to POST /login. A 401 here is a credentials
// failure, not a dead session, because no bearer token is attached.
func (c *Client) Login(ctx context.Context, email, password string, role domain.Role) (*ports.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", nil, loginRequest{Email: email, Password: password, Role: role}, &resp)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		Token:                    resp.Token,
		User:                     resp.User,
		RequiresPasswordCreation: resp.RequiresPasswordCreation,
	}, nil
}

type resetPasswordRequest struct {
	Email       string      `json:"email"`
	NewPassword string      `json:"newPassword"`
	Role        domain.Role `json:"role"`
}

// ResetPassword sets a new password via POST /reset-password.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string, role domain.Role) error {
	return c.do(ctx, http.MethodPost, "/reset-password", "", nil, resetPasswordRequest{Email: email, NewPassword: newPassword, Role: role}, nil)
}

type forgotPasswordRequest struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ForgotPassword requests a recovery email via POST /auth/forgot-password.
func (c *Client) ForgotPassword(ctx context.Context, email string, role domain.Role) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", "", nil, forgotPasswordRequest{Email: email, Role: role}, nil)
}

type renewResponse struct {
	NewToken string `json:"newToken"`
}

// RenewToken exchanges a still-valid token for a fresh one.
func (c *Client) RenewToken(ctx context.Context, token string) (string, error) {
	var resp renewResponse
	if err := c.do(ctx, http.MethodPost, "/renew-token", token, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.NewToken, nil
}

// CurrentUser resolves the token holder via GET /users/me.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
