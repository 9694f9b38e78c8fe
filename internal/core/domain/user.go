package domain

import "time"

// Role is the closed set of permission classes a clinic user can hold.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient, RoleProfessional:
		return true
	}
	return false
}

// Landing returns the dashboard path a freshly authenticated user of this
// role is sent to. Roles without a dedicated dashboard land on the home page.
func (r Role) Landing() string {
	switch r {
	case RoleDoctor:
		return "/doctors"
	case RoleAdmin:
		return "/admin"
	case RolePatient:
		return "/patient"
	default:
		return "/"
	}
}

// User models an authenticated clinic actor as returned by the upstream API.
// It lives only for the duration of a session and is never written anywhere
// but the session store.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
