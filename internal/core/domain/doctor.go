package domain

// Doctor is a clinic professional exposed by the upstream directory.
type Doctor struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// A time slot is an opaque "HH:MM" string minted by the upstream scheduler;
// the gateway never parses or reorders them.
type TimeSlot = string
