package domain

import "errors"

var (
	// ErrInvalidCredentials covers bad email/password/role combinations,
	// whether rejected locally or by the upstream API.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenRejected means the upstream API answered 401 for a token we
	// hold; the session is no longer usable and must be destroyed.
	ErrTokenRejected = errors.New("upstream rejected token")

	// ErrSessionNotFound is returned when a session ID has no entry in the
	// token store (expired, logged out, or never existed).
	ErrSessionNotFound = errors.New("session not found")

	// ErrPasswordMismatch is the local pre-flight failure when the new
	// password and its confirmation differ; no network call is made.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrWrongMode is returned when a login-flow action is submitted while a
	// different mode is active.
	ErrWrongMode = errors.New("action not valid in current login mode")

	// ErrSubmitInFlight rejects a duplicate login-flow submission while the
	// previous one for the same account has not settled.
	ErrSubmitInFlight = errors.New("submission already in flight")

	ErrForbidden      = errors.New("access forbidden")
	ErrInvalidRole    = errors.New("unknown role")
	ErrLeadNotFound   = errors.New("lead not found")
	ErrDoctorNotFound = errors.New("doctor not found")
)

// UpstreamError carries the user-facing message the upstream API attached to
// a failed operation, so form flows can surface it as a transient notice.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "upstream request failed"
}
