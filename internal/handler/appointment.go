package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/publisher"
	"github.com/rudzz/marketplace-api/internal/queue"
	"github.com/rudzz/marketplace-api/internal/repository"
	"github.com/rudzz/marketplace-api/internal/utils"
)

// AppointmentHandler serves the provider's appointment endpoints.
type AppointmentHandler struct {
	Appointments *repository.AppointmentRepo
}

func NewAppointmentHandler(r *repository.AppointmentRepo) *AppointmentHandler {
	return &AppointmentHandler{Appointments: r}
}

// customerPart is the embedded customer block the dashboard renders next
// to each appointment and review.
type customerPart struct {
	ID       uint64 `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar"`
	Initials string `json:"initials"`
}

type appointmentResp struct {
	ID        uint64       `json:"id"`
	Customer  customerPart `json:"customer"`
	Service   string       `json:"service"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
	Status    string       `json:"status"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"created_at"`
}

func appointmentJSON(d *repository.AppointmentDetail, now time.Time) appointmentResp {
	return appointmentResp{
		ID: d.ID,
		Customer: customerPart{
			ID:       d.UserID,
			Name:     d.CustomerName,
			Email:    d.CustomerEmail,
			Avatar:   "/placeholder.svg",
			Initials: initials(d.CustomerName),
		},
		Service:   d.ServiceName,
		Date:      humanDate(d.Date, now),
		Time:      d.Time,
		Status:    d.Status,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
	}
}

// List returns the provider's appointments, optionally filtered by
// ?status=, ?date= (exact day) and ?limit=.
func (h *AppointmentHandler) List(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	filters := repository.AppointmentFilters{
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
		Limit:  parseLimit(c),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Appointments.ListByProvider(ctx, providerID, filters)
	if err != nil {
		return internalError(c, "appointments: list", err, "Unable to load appointments")
	}

	now := time.Now().UTC()
	out := make([]appointmentResp, 0, len(list))
	for i := range list {
		out = append(out, appointmentJSON(&list[i], now))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one appointment. An id owned by another provider is
// indistinguishable from a missing one.
func (h *AppointmentHandler) Get(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Appointment ID is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Appointments.GetByID(ctx, id, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "Appointment not found")
		}
		return internalError(c, "appointments: get", err, "Unable to load appointment")
	}
	return c.JSON(http.StatusOK, appointmentJSON(d, time.Now().UTC()))
}

// Update applies a sparse patch (status and/or notes) to an appointment
// and returns the stored row. A successful status change also emits an
// event to the broker, best-effort.
func (h *AppointmentHandler) Update(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Appointment ID is required")
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}

	patch := &repository.Patch{}
	if v, ok := strField(body, "status"); ok {
		patch.Set("status", utils.Sanitize(v))
	}
	if v, ok := strField(body, "notes"); ok {
		patch.Set("notes", utils.Sanitize(v))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The repo checks ownership before rejecting an empty patch, so a
	// foreign id reports not-found either way.
	prev, d, err := h.Appointments.Update(ctx, id, providerID, patch)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "Appointment not found")
		case repository.ErrNoFields:
			return fail(c, http.StatusBadRequest, "No fields to update")
		}
		return internalError(c, "appointments: update", err, "Unable to update appointment")
	}

	if d.Status != prev.Status {
		_ = publisher.PublishAppointmentStatusChanged(ctx, queue.AppointmentStatusChangedEvent{
			AppointmentID: d.ID,
			ProviderID:    providerID,
			UserID:        d.UserID,
			ServiceName:   d.ServiceName,
			OldStatus:     prev.Status,
			NewStatus:     d.Status,
			ChangedAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, appointmentJSON(d, time.Now().UTC()))
}
