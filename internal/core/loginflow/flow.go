// Package loginflow models the login screen's three mutually exclusive modes
// as an explicit state machine: credential entry, forced password creation,
// and password-reset request. Transitions happen only through explicit user
// actions, plus the single server-driven jump into password creation. The
// package has no transport dependencies; handlers drive it per request.
package loginflow

import (
	"context"
	"errors"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// Mode is the tagged variant for the active login screen.
type Mode int

const (
	ModeCredentials Mode = iota
	ModePasswordCreation
	ModeForgotPassword
)

func (m Mode) String() string {
	switch m {
	case ModePasswordCreation:
		return "create-password"
	case ModeForgotPassword:
		return "forgot-password"
	default:
		return "credentials"
	}
}

// ParseMode maps the wire name back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "credentials":
		return ModeCredentials, nil
	case "create-password":
		return ModePasswordCreation, nil
	case "forgot-password":
		return ModeForgotPassword, nil
	}
	return ModeCredentials, errors.New("unknown login mode: " + s)
}

// Flow is one login interaction. Exactly one mode is active at a time; the
// selected role is shared context across all modes and switching it never
// resets the active mode.
type Flow struct {
	upstream ports.UpstreamAuth
	mode     Mode
	role     domain.Role
	email    string
	busy     bool
}

// New starts a flow in credentials mode.
func New(upstream ports.UpstreamAuth, role domain.Role) (*Flow, error) {
	return Resume(upstream, ModeCredentials, role, "")
}

// Resume reconstructs a flow in a given mode, carrying the email a previous
// submit established (password creation needs it for the upstream call).
func Resume(upstream ports.UpstreamAuth, mode Mode, role domain.Role, email string) (*Flow, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	return &Flow{upstream: upstream, mode: mode, role: role, email: email}, nil
}

// Mode reports the active mode.
func (f *Flow) Mode() Mode { return f.mode }

// Role reports the selected role.
func (f *Flow) Role() domain.Role { return f.role }

// Email reports the email carried by the flow (empty once cleared).
func (f *Flow) Email() string { return f.email }

// SelectRole switches the shared role without touching the active mode.
func (f *Flow) SelectRole(role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	f.role = role
	return nil
}

// BeginForgotPassword is the explicit user action entering reset mode.
func (f *Flow) BeginForgotPassword() error {
	if f.mode != ModeCredentials {
		return domain.ErrWrongMode
	}
	f.mode = ModeForgotPassword
	return nil
}

// Cancel returns to credentials mode from either secondary mode.
func (f *Flow) Cancel() {
	f.mode = ModeCredentials
	f.email = ""
}

// CredentialsResult is the outcome of a credentials submit that reached the
// upstream API. Either the session material is populated, or the flow has
// transitioned into password creation.
type CredentialsResult struct {
	RequiresPasswordCreation bool
	Token                    string
	User                     *domain.User
	Landing                  string
}

// SubmitCredentials sends {email, password, role} to the login endpoint.
// On the upstream's requiresPasswordCreation flag the flow transitions into
// password creation and no session material is returned. On failure the flow
// stays in credentials mode and the error carries the server message.
func (f *Flow) SubmitCredentials(ctx context.Context, email, password string) (*CredentialsResult, error) {
	if f.mode != ModeCredentials {
		return nil, domain.ErrWrongMode
	}
	release, err := f.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := f.upstream.Login(ctx, email, password, f.role)
	if err != nil {
		return nil, err
	}

	if result.RequiresPasswordCreation {
		f.mode = ModePasswordCreation
		f.email = email
		return &CredentialsResult{RequiresPasswordCreation: true}, nil
	}

	if result.Token == "" || result.User == nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &CredentialsResult{
		Token:   result.Token,
		User:    result.User,
		Landing: result.User.Role.Landing(),
	}, nil
}

// SubmitNewPassword completes forced password creation. A confirmation
// mismatch is rejected locally before any network call. Success returns the
// flow to credentials mode; failure keeps it in password creation.
func (f *Flow) SubmitNewPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if f.mode != ModePasswordCreation {
		return domain.ErrWrongMode
	}
	if newPassword == "" || newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}
	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := f.upstream.ResetPassword(ctx, f.email, newPassword, f.role); err != nil {
		return err
	}

	f.mode = ModeCredentials
	return nil
}

// SubmitPasswordReset requests a recovery email. Success returns the flow to
// credentials mode and clears the reset email field.
func (f *Flow) SubmitPasswordReset(ctx context.Context, email string) error {
	if f.mode != ModeForgotPassword {
		return domain.ErrWrongMode
	}
	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := f.upstream.ForgotPassword(ctx, email, f.role); err != nil {
		return err
	}

	f.mode = ModeCredentials
	f.email = ""
	return nil
}

// acquire flips the busy flag for the duration of one submission. The
// returned release runs in a defer so the flag clears on every outcome.
func (f *Flow) acquire() (func(), error) {
	if f.busy {
		return nil, domain.ErrSubmitInFlight
	}
	f.busy = true
	return func() { f.busy = false }, nil
}
