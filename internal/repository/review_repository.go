package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReviewRepo provides provider-scoped read access to the reviews table.
// Providers never create or modify reviews through this API; customers
// write them elsewhere.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewDetail is a review row joined with the reviewer and service names.
type ReviewDetail struct {
	ID           uint64
	UserID       uint64
	CustomerName string
	ServiceID    uint64
	ServiceName  string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

// ReviewFilters carries the optional listing predicates for reviews.
type ReviewFilters struct {
	Rating *int // exact integer rating match
	Limit  *int64
}

const reviewSelect = `SELECT r.id, r.user_id, u.name, r.service_id, s.name,
	       r.rating, COALESCE(r.comment, ''), r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN services s ON s.id = r.service_id`

// Newest reviews first, fixed per resource kind.
const reviewOrder = `ORDER BY r.created_at DESC`

// ListByProvider returns the provider's reviews with optional filters.
func (r *ReviewRepo) ListByProvider(ctx context.Context, providerID uint64, f ReviewFilters) ([]ReviewDetail, error) {
	cond := Scope("r.provider_id = ?", providerID)
	if f.Rating != nil {
		cond.And("r.rating = ?", *f.Rating)
	}
	if f.Limit != nil {
		cond.Limit(*f.Limit)
	}

	query, args, err := cond.Build(reviewSelect, reviewOrder)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReviewDetail{}
	for rows.Next() {
		var d ReviewDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.CustomerName, &d.ServiceID, &d.ServiceName,
			&d.Rating, &d.Comment, &d.CreatedAt,
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

// GetByID loads a single review scoped to the provider.
func (r *ReviewRepo) GetByID(ctx context.Context, reviewID, providerID uint64) (*ReviewDetail, error) {
	query, args, err := Scope("r.id = ?", reviewID).
		And("r.provider_id = ?", providerID).
		Build(reviewSelect, "")
	if err != nil {
		return nil, err
	}
	var d ReviewDetail
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&d.ID, &d.UserID, &d.CustomerName, &d.ServiceID, &d.ServiceName,
		&d.Rating, &d.Comment, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
