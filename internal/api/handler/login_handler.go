package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/api/metrics"
	apimw "github.com/kaduart/fono-inova-gateway/internal/api/middleware"
	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/loginflow"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// LoginHandler drives the login flow state machine and the session endpoints.
type LoginHandler struct {
	upstream ports.UpstreamAuth
	sessions ports.SessionService
	submits  ports.SubmitGuard
	log      zerolog.Logger
}

func NewLoginHandler(upstream ports.UpstreamAuth, sessions ports.SessionService, submits ports.SubmitGuard, log zerolog.Logger) *LoginHandler {
	return &LoginHandler{upstream: upstream, sessions: sessions, submits: submits, log: log}
}

// acquireSubmit holds the cross-request in-flight marker for one account and
// mode. The flow's own busy flag only covers a single Flow value; this is the
// guard that overlapping HTTP submissions actually share.
func (h *LoginHandler) acquireSubmit(c echo.Context, mode loginflow.Mode, role, email string) (func(), error) {
	release, err := h.submits.Acquire(c.Request().Context(), mode.String()+":"+role+":"+email)
	if err != nil {
		if errors.Is(err, domain.ErrSubmitInFlight) {
			return nil, c.JSON(http.StatusConflict, loginResponse{Mode: mode.String(), Notice: err.Error()})
		}
		return nil, err
	}
	return release, nil
}

// Login handles the credentials-mode submit.
//
// @Summary      Sign in with email, password and role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  loginResponse
// @Failure      409   {object}  loginResponse
// @Router       /login [post]
func (h *LoginHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	role := domain.Role(req.Role)
	flow, err := loginflow.New(h.upstream, role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	release, err := h.acquireSubmit(c, loginflow.ModeCredentials, req.Role, req.Email)
	if release == nil {
		return err
	}
	defer release()

	result, err := flow.SubmitCredentials(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(req.Role, "failure").Inc()
		return h.credentialsFailure(c, err)
	}

	if result.RequiresPasswordCreation {
		metrics.LoginsTotal.WithLabelValues(req.Role, "password_creation").Inc()
		// Server-driven transition: no session, no redirect.
		return c.JSON(http.StatusOK, loginResponse{Mode: flow.Mode().String()})
	}

	session, signed, err := h.sessions.Establish(c.Request().Context(), result.Token, result.User, req.Remember)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(req.Role, "failure").Inc()
		return err
	}

	h.setSessionCookie(c, signed, session.Remember)
	metrics.LoginsTotal.WithLabelValues(req.Role, "success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Mode:     "authenticated",
		Redirect: redirectTarget(req.Next, result.Landing),
		User:     result.User,
	})
}

// credentialsFailure surfaces the server-provided message as a transient
// notice while the form stays in credentials mode.
func (h *LoginHandler) credentialsFailure(c echo.Context, err error) error {
	status := http.StatusUnauthorized
	notice := "invalid credentials"

	var ue *domain.UpstreamError
	switch {
	case errors.As(err, &ue):
		if ue.StatusCode >= 400 && ue.StatusCode < 500 {
			status = ue.StatusCode
		}
		if ue.Message != "" {
			notice = ue.Message
		}
	case errors.Is(err, domain.ErrInvalidCredentials):
		// defaults
	default:
		return err
	}

	return c.JSON(status, loginResponse{Mode: loginflow.ModeCredentials.String(), Notice: notice})
}

// CreatePassword handles the forced-password-creation submit.
//
// @Summary      Set the first password for an account flagged by login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      createPasswordRequest  true  "New password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  loginResponse
// @Router       /login/password [post]
func (h *LoginHandler) CreatePassword(c echo.Context) error {
	var req createPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	flow, err := loginflow.Resume(h.upstream, loginflow.ModePasswordCreation, domain.Role(req.Role), req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	release, err := h.acquireSubmit(c, loginflow.ModePasswordCreation, req.Role, req.Email)
	if release == nil {
		return err
	}
	defer release()

	if err := flow.SubmitNewPassword(c.Request().Context(), req.NewPassword, req.ConfirmPassword); err != nil {
		if errors.Is(err, domain.ErrPasswordMismatch) {
			return c.JSON(http.StatusBadRequest, loginResponse{
				Mode:   loginflow.ModePasswordCreation.String(),
				Notice: err.Error(),
			})
		}
		return h.secondaryModeFailure(c, loginflow.ModePasswordCreation, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Mode:   flow.Mode().String(),
		Notice: "password created, sign in with your new password",
	})
}

// ForgotPassword handles the password-recovery request.
//
// @Summary      Request a password recovery email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  loginResponse
// @Router       /login/forgot [post]
func (h *LoginHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	flow, err := loginflow.Resume(h.upstream, loginflow.ModeForgotPassword, domain.Role(req.Role), req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	release, err := h.acquireSubmit(c, loginflow.ModeForgotPassword, req.Role, req.Email)
	if release == nil {
		return err
	}
	defer release()

	if err := flow.SubmitPasswordReset(c.Request().Context(), req.Email); err != nil {
		return h.secondaryModeFailure(c, loginflow.ModeForgotPassword, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Mode:   flow.Mode().String(),
		Notice: "recovery instructions sent if the account exists",
	})
}

// secondaryModeFailure keeps the active mode open and surfaces the upstream
// message so the user can correct and resubmit.
func (h *LoginHandler) secondaryModeFailure(c echo.Context, mode loginflow.Mode, err error) error {
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		return err
	}

	status := http.StatusBadRequest
	if ue.StatusCode >= 400 && ue.StatusCode < 500 {
		status = ue.StatusCode
	}
	return c.JSON(status, loginResponse{Mode: mode.String(), Notice: ue.Error()})
}

// Logout destroys the session. Idempotent: a second call lands in the same
// end state (no token, no user, on the login page).
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginResponse
// @Router       /logout [post]
func (h *LoginHandler) Logout(c echo.Context) error {
	if sessionID := apimw.SessionIDFromContext(c); sessionID != "" {
		if err := h.sessions.Destroy(c.Request().Context(), sessionID); err != nil {
			return err
		}
	}
	h.clearSessionCookie(c)

	if strings.Contains(c.Request().Header.Get("Accept"), "text/html") {
		return c.Redirect(http.StatusFound, apimw.LoginPath)
	}
	return c.JSON(http.StatusOK, loginResponse{Mode: loginflow.ModeCredentials.String(), Redirect: apimw.LoginPath})
}

// Session answers "who am I" for the caller.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *LoginHandler) Session(c echo.Context) error {
	session := apimw.SessionFromContext(c)
	if !session.Authenticated() {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: session.User})
}

func (h *LoginHandler) setSessionCookie(c echo.Context, signed string, remember bool) {
	cookie := &http.Cookie{
		Name:     apimw.SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Scheme() == "https",
	}
	if remember {
		cookie.MaxAge = int(rememberCookieAge.Seconds())
	}
	c.SetCookie(cookie)
}

func (h *LoginHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     apimw.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// redirectTarget returns the originally requested path when it is a safe
// local path, falling back to the role's landing page.
func redirectTarget(next, landing string) string {
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return landing
}
