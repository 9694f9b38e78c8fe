package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// DoctorHandler proxies the read-only doctor directory and appointment slot
// lookups, attaching the caller's upstream token.
type DoctorHandler struct {
	directory ports.UpstreamDirectory
	sessions  ports.SessionService
}

func NewDoctorHandler(directory ports.UpstreamDirectory, sessions ports.SessionService) *DoctorHandler {
	return &DoctorHandler{directory: directory, sessions: sessions}
}

type availableSlotsQuery struct {
	DoctorID string `query:"doctorId" validate:"required"`
	Date     string `query:"date"     validate:"required,datetime=2006-01-02"`
}

// List returns all clinic professionals.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Success      200  {array}  domain.Doctor
// @Router       /doctors/all [get]
func (h *DoctorHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	doctors, err := h.directory.Doctors(c.Request().Context(), session.Token)
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, doctors)
}

// Get returns a single doctor record.
//
// @Summary      Get one doctor
// @Tags         doctors
// @Produce      json
// @Param        id   path      string  true  "Doctor ID"
// @Success      200  {object}  domain.Doctor
// @Failure      404  {object}  map[string]string
// @Router       /doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	doctor, err := h.directory.Doctor(c.Request().Context(), session.Token, c.Param("id"))
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, doctor)
}

// AvailableSlots returns the free time slots for a doctor on a date.
//
// @Summary      List available appointment slots
// @Tags         appointments
// @Produce      json
// @Param        doctorId  query     string  true  "Doctor ID"
// @Param        date      query     string  true  "Date (YYYY-MM-DD)"
// @Success      200       {array}   string
// @Failure      400       {object}  map[string]string
// @Router       /appointments/available-slots [get]
func (h *DoctorHandler) AvailableSlots(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var query availableSlotsQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&query); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	slots, err := h.directory.AvailableSlots(c.Request().Context(), session.Token, query.DoctorID, query.Date)
	if err != nil {
		return upstreamFailure(c, h.sessions, err)
	}
	return c.JSON(http.StatusOK, slots)
}
