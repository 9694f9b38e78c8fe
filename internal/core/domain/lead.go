package domain

import "time"

// Lead is a marketing contact tracked by the clinic's acquisition funnel.
// The gateway does not own lead storage; records are passed through from the
// upstream API unchanged.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Source    string    `json:"source,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// LeadSummary is the aggregate view served by /leads/report/summary.
type LeadSummary struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"byStatus"`
	BySource  map[string]int `json:"bySource"`
	Converted int            `json:"converted"`
}
