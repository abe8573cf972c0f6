package repository

import (
	"context"
	"database/sql"
	"time"
)

// AppointmentRepo provides provider-scoped access to the appointments
// table. Every statement conjoins provider_id with any other predicate so
// one provider can never see or touch another provider's bookings. All
// timestamp columns are stored in UTC.
type AppointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// AppointmentDetail is an appointment row joined with the customer and
// service names needed for display. Handlers shape the JSON response from
// this struct rather than exposing it directly.
type AppointmentDetail struct {
	ID            uint64
	UserID        uint64
	CustomerName  string
	CustomerEmail string
	ServiceID     uint64
	ServiceName   string
	Date          time.Time
	Time          string
	Status        string
	Notes         string
	CreatedAt     time.Time
}

// AppointmentFilters carries the optional listing predicates. Zero values
// mean "no filter"; Limit is nil when absent or invalid at the transport
// layer.
type AppointmentFilters struct {
	Status string // exact status match
	Date   string // exact calendar day, "2006-01-02"
	Limit  *int64
}

const appointmentSelect = `SELECT a.id, a.user_id, u.name, u.email,
	       a.service_id, s.name,
	       a.appointment_date, a.appointment_time, a.status,
	       COALESCE(a.notes, ''), a.created_at
	FROM appointments a
	JOIN users u ON u.id = a.user_id
	JOIN services s ON s.id = a.service_id`

// Appointments are always returned soonest-first; the sort is fixed per
// resource kind, not caller-configurable.
const appointmentOrder = `ORDER BY a.appointment_date ASC, a.appointment_time ASC`

// ListByProvider returns the provider's appointments with the optional
// filters applied in caller order after the mandatory ownership scope.
func (r *AppointmentRepo) ListByProvider(ctx context.Context, providerID uint64, f AppointmentFilters) ([]AppointmentDetail, error) {
	cond := Scope("a.provider_id = ?", providerID)
	if f.Status != "" {
		cond.And("a.status = ?", f.Status)
	}
	if f.Date != "" {
		// DATE() ignores the time-of-day component
		cond.And("DATE(a.appointment_date) = ?", f.Date)
	}
	if f.Limit != nil {
		cond.Limit(*f.Limit)
	}

	query, args, err := cond.Build(appointmentSelect, appointmentOrder)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AppointmentDetail{}
	for rows.Next() {
		var d AppointmentDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.CustomerName, &d.CustomerEmail,
			&d.ServiceID, &d.ServiceName,
			&d.Date, &d.Time, &d.Status, &d.Notes, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a single appointment scoped to the provider. A missing id
// and an id owned by someone else both return sql.ErrNoRows.
func (r *AppointmentRepo) GetByID(ctx context.Context, appointmentID, providerID uint64) (*AppointmentDetail, error) {
	query, args, err := Scope("a.id = ?", appointmentID).
		And("a.provider_id = ?", providerID).
		Build(appointmentSelect, "")
	if err != nil {
		return nil, err
	}
	var d AppointmentDetail
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&d.ID, &d.UserID, &d.CustomerName, &d.CustomerEmail,
		&d.ServiceID, &d.ServiceName,
		&d.Date, &d.Time, &d.Status, &d.Notes, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update applies a sparse patch to an appointment. Ownership is confirmed
// first (sql.ErrNoRows when absent or foreign), then an empty patch is
// rejected with ErrNoFields. updated_at is always server-set. Both the row
// as it stood before the write and the re-read result are returned, so
// callers that react to transitions (status-change events) need no reads
// of their own.
func (r *AppointmentRepo) Update(ctx context.Context, appointmentID, providerID uint64, patch *Patch) (prev, cur *AppointmentDetail, err error) {
	prev, err = r.GetByID(ctx, appointmentID, providerID)
	if err != nil {
		return nil, nil, err
	}
	if patch.Empty() {
		return nil, nil, ErrNoFields
	}
	patch.Set("updated_at", time.Now().UTC())

	set, args := patch.Build()
	query := "UPDATE appointments SET " + set + " WHERE id = ? AND provider_id = ?"
	args = append(args, appointmentID, providerID)
	if err := lockstep(query, args); err != nil {
		return nil, nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, nil, err
	}
	cur, err = r.GetByID(ctx, appointmentID, providerID)
	if err != nil {
		return nil, nil, err
	}
	return prev, cur, nil
}
