package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// LeadHandler proxies the marketing lead CRUD surface. Routes are mounted
// behind an admin-only guard; the handler itself only validates payloads and
// forwards them with the caller's token.
type LeadHandler struct {
	leads    ports.UpstreamLeads
	sessions ports.SessionService
}

func NewLeadHandler(leads ports.UpstreamLeads, sessions ports.SessionService) *LeadHandler {
	return &LeadHandler{leads: leads, sessions: sessions}
}

type leadRequest struct {
	Name   string `json:"name"   validate:"required"`
	Email  string `json:"email"  validate:"omitempty,email"`
	Phone  string `json:"phone"  validate:"required"`
	Source string `json:"source"`
	Status string `json:"status" validate:"required,oneof=new contacted scheduled converted lost"`
	Notes  string `json:"notes"`
}

func (r leadRequest) input() ports.LeadInput {
	return ports.LeadInput{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Source: r.Source,
		Status: r.Status,
		Notes:  r.Notes,
	}
}

// List returns all leads.
//
// @Summary      List marketing leads
// @Tags         leads
// @Produce      json
// @Success      200  {array}  domain.Lead
// @Router       /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	leads, err := h.leads.Leads(c.Request().Context(), session.Token)
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, leads)
}

// Get returns one lead.
//
// @Summary      Get one lead
// @Tags         leads
// @Produce      json
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  domain.Lead
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	lead, err := h.leads.Lead(c.Request().Context(), session.Token, c.Param("id"))
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// Create registers a new lead.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      leadRequest  true  "Lead fields"
// @Success      201   {object}  domain.Lead
// @Failure      400   {object}  map[string]string
// @Router       /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req leadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	lead, err := h.leads.CreateLead(c.Request().Context(), session.Token, req.input())
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusCreated, lead)
}

// Update replaces the writable fields of a lead.
//
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Lead ID"
// @Param        body  body      leadRequest  true  "Lead fields"
// @Success      200   {object}  domain.Lead
// @Failure      404   {object}  map[string]string
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req leadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	lead, err := h.leads.UpdateLead(c.Request().Context(), session.Token, c.Param("id"), req.input())
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// Delete removes a lead.
//
// @Summary      Delete a lead
// @Tags         leads
// @Param        id  path  string  true  "Lead ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.leads.DeleteLead(c.Request().Context(), session.Token, c.Param("id")); err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary returns the aggregate lead counts.
//
// @Summary      Lead report summary
// @Tags         leads
// @Produce      json
// @Success      200  {object}  domain.LeadSummary
// @Router       /leads/report/summary [get]
func (h *LeadHandler) Summary(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	summary, err := h.leads.LeadSummary(c.Request().Context(), session.Token)
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, summary)
}
