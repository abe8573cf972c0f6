package repository

import (
	"context"
	"database/sql"
	"time"
)

// ServiceRepo provides provider-scoped CRUD over the services table.
type ServiceRepo struct {
	db *sql.DB
}

// NewServiceRepo returns a new ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

// ServiceDetail is a service row joined with its category name. The
// category join is LEFT so services keep listing if their category row
// disappears.
type ServiceDetail struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Price        float64    `json:"price"`
	Duration     int        `json:"duration"`
	CategoryID   uint64     `json:"category_id"`
	CategoryName *string    `json:"category_name"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// NewService carries the sanitized column values for an insert. ProviderID
// is always the authenticated principal; the handler never copies it from
// client input.
type NewService struct {
	ProviderID  uint64
	Name        string
	Description string
	Price       float64
	Duration    int
	CategoryID  uint64
	Status      string
}

const serviceSelect = `SELECT s.id, s.name, COALESCE(s.description, ''), s.price, s.duration,
	       s.category_id, c.name, s.status, s.created_at, s.updated_at
	FROM services s
	LEFT JOIN categories c ON c.id = s.category_id`

const serviceOrder = `ORDER BY s.name ASC`

// ListByProvider returns all of the provider's services, name ascending.
func (r *ServiceRepo) ListByProvider(ctx context.Context, providerID uint64) ([]ServiceDetail, error) {
	query, args, err := Scope("s.provider_id = ?", providerID).Build(serviceSelect, serviceOrder)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ServiceDetail{}
	for rows.Next() {
		var d ServiceDetail
		if err := scanService(rows.Scan, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a single service scoped to the provider.
func (r *ServiceRepo) GetByID(ctx context.Context, serviceID, providerID uint64) (*ServiceDetail, error) {
	query, args, err := Scope("s.id = ?", serviceID).
		And("s.provider_id = ?", providerID).
		Build(serviceSelect, "")
	if err != nil {
		return nil, err
	}
	var d ServiceDetail
	if err := scanService(r.db.QueryRowContext(ctx, query, args...).Scan, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new service and returns the stored row, re-read so
// database defaults are reflected.
func (r *ServiceRepo) Create(ctx context.Context, svc NewService) (*ServiceDetail, error) {
	const q = `INSERT INTO services
		(provider_id, name, description, price, duration, category_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		svc.ProviderID, svc.Name, svc.Description, svc.Price,
		svc.Duration, svc.CategoryID, svc.Status, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id), svc.ProviderID)
}

// Update applies a sparse patch to a service owned by the provider. See
// AppointmentRepo.Update for the ownership/empty-patch sequencing.
func (r *ServiceRepo) Update(ctx context.Context, serviceID, providerID uint64, patch *Patch) (*ServiceDetail, error) {
	if _, err := r.GetByID(ctx, serviceID, providerID); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, ErrNoFields
	}
	patch.Set("updated_at", time.Now().UTC())

	set, args := patch.Build()
	query := "UPDATE services SET " + set + " WHERE id = ? AND provider_id = ?"
	args = append(args, serviceID, providerID)
	if err := lockstep(query, args); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, serviceID, providerID)
}

// Delete removes a service after confirming ownership. Absent and foreign
// ids are both reported as sql.ErrNoRows.
func (r *ServiceRepo) Delete(ctx context.Context, serviceID, providerID uint64) error {
	if _, err := r.GetByID(ctx, serviceID, providerID); err != nil {
		return err
	}
	const q = `DELETE FROM services WHERE id = ? AND provider_id = ?`
	_, err := r.db.ExecContext(ctx, q, serviceID, providerID)
	return err
}

// scanService scans one joined service row via the provided Scan func,
// shared between QueryRow and Rows iteration.
func scanService(scan func(...any) error, d *ServiceDetail) error {
	var catName sql.NullString
	var updated sql.NullTime
	if err := scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.Duration,
		&d.CategoryID, &catName, &d.Status, &d.CreatedAt, &updated,
	); err != nil {
		return err
	}
	if catName.Valid {
		n := catName.String
		d.CategoryName = &n
	}
	if updated.Valid {
		t := updated.Time
		d.UpdatedAt = &t
	}
	return nil
}
