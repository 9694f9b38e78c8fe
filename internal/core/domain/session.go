package domain

// Session pairs an upstream bearer token with the user it authenticates.
// Invariant: User is non-nil exactly between a successful login (or restore)
// and the subsequent logout or failed revalidation.
type Session struct {
	ID       string `json:"id"`
	Token    string `json:"-"`
	Remember bool   `json:"remember"`
	User     *User  `json:"user,omitempty"`
}

// Authenticated is derived from the presence of a user; it is never stored
// independently so the two cannot diverge.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// Role returns the session user's role, or the empty Role when unauthenticated.
func (s *Session) Role() Role {
	if !s.Authenticated() {
		return ""
	}
	return s.User.Role
}
