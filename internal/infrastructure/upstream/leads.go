package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

type leadRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone"`
	Source string `json:"source,omitempty"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func toLeadRequest(input ports.LeadInput) leadRequest {
	return leadRequest{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Source: input.Source,
		Status: input.Status,
		Notes:  input.Notes,
	}
}

func mapLeadError(err error) error {
	var ue *domain.UpstreamError
	if errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound {
		return domain.ErrLeadNotFound
	}
	return err
}

// Leads lists all marketing leads.
func (c *Client) Leads(ctx context.Context, token string) ([]domain.Lead, error) {
	var leads []domain.Lead
	if err := c.do(ctx, http.MethodGet, "/leads", token, nil, nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Lead fetches one lead by ID.
func (c *Client) Lead(ctx context.Context, token, id string) (*domain.Lead, error) {
	var lead domain.Lead
	if err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(id), token, nil, nil, &lead); err != nil {
		return nil, mapLeadError(err)
	}
	return &lead, nil
}

// CreateLead registers a new lead.
func (c *Client) CreateLead(ctx context.Context, token string, input ports.LeadInput) (*domain.Lead, error) {
	var lead domain.Lead
	if err := c.do(ctx, http.MethodPost, "/leads", token, nil, toLeadRequest(input), &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateLead replaces the writable fields of an existing lead.
func (c *Client) UpdateLead(ctx context.Context, token, id string, input ports.LeadInput) (*domain.Lead, error) {
	var lead domain.Lead
	if err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id), token, nil, toLeadRequest(input), &lead); err != nil {
		return nil, mapLeadError(err)
	}
	return &lead, nil
}

// DeleteLead removes a lead.
func (c *Client) DeleteLead(ctx context.Context, token, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/leads/"+url.PathEscape(id), token, nil, nil, nil); err != nil {
		return mapLeadError(err)
	}
	return nil
}

// LeadSummary fetches the aggregate counts for the marketing dashboard.
func (c *Client) LeadSummary(ctx context.Context, token string) (*domain.LeadSummary, error) {
	var summary domain.LeadSummary
	if err := c.do(ctx, http.MethodGet, "/leads/report/summary", token, nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
