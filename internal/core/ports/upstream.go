package ports

import (
	"context"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

// LoginResult is the upstream answer to a credentials submit. Exactly one of
// the two shapes is populated: a token+user pair, or the flag telling the
// client to switch into forced password creation.
type LoginResult struct {
	Token                    string
	User                     *domain.User
	RequiresPasswordCreation bool
}

// UpstreamAuth covers the authentication operations of the clinic API.
type UpstreamAuth interface {
	Login(ctx context.Context, email, password string, role domain.Role) (*LoginResult, error)
	ResetPassword(ctx context.Context, email, newPassword string, role domain.Role) error
	ForgotPassword(ctx context.Context, email string, role domain.Role) error
	RenewToken(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// UpstreamDirectory covers read-only doctor and appointment lookups.
type UpstreamDirectory interface {
	Doctors(ctx context.Context, token string) ([]domain.Doctor, error)
	Doctor(ctx context.Context, token, id string) (*domain.Doctor, error)
	AvailableSlots(ctx context.Context, token, doctorID, date string) ([]domain.TimeSlot, error)
}

// LeadInput carries the writable lead fields for create and update calls.
type LeadInput struct {
	Name   string
	Email  string
	Phone  string
	Source string
	Status string
	Notes  string
}

// UpstreamLeads covers the marketing lead CRUD surface.
type UpstreamLeads interface {
	Leads(ctx context.Context, token string) ([]domain.Lead, error)
	Lead(ctx context.Context, token, id string) (*domain.Lead, error)
	CreateLead(ctx context.Context, token string, input LeadInput) (*domain.Lead, error)
	UpdateLead(ctx context.Context, token, id string, input LeadInput) (*domain.Lead, error)
	DeleteLead(ctx context.Context, token, id string) error
	LeadSummary(ctx context.Context, token string) (*domain.LeadSummary, error)
}
