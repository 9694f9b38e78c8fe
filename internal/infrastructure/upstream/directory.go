package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

// Doctors lists all clinic professionals via GET /doctors/all.
func (c *Client) Doctors(ctx context.Context, token string) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors/all", token, nil, nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Doctor fetches a single record via GET /doctors/:id.
func (c *Client) Doctor(ctx context.Context, token, id string) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := c.do(ctx, http.MethodGet, "/doctors/"+url.PathEscape(id), token, nil, nil, &doctor)
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// AvailableSlots queries GET /appointments/available-slots for one doctor and
// date. The upstream returns a flat list of "HH:MM" strings.
func (c *Client) AvailableSlots(ctx context.Context, token, doctorID, date string) ([]domain.TimeSlot, error) {
	query := url.Values{}
	query.Set("doctorId", doctorID)
	query.Set("date", date)

	var slots []domain.TimeSlot
	if err := c.do(ctx, http.MethodGet, "/appointments/available-slots", token, query, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
