package repository

import (
	"context"
	"database/sql"
	"time"
)

// StatsRepo runs the scoped aggregate queries backing the dashboard
// metrics. Each metric is a single independent statement; results are
// computed fresh on every call and never cached. Time windows are
// half-open: rows with ts >= from and ts < to are counted, so the last
// instant of a month can never fall into both months.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a new StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// ActiveServiceCount returns the provider's currently active services.
// This is a present-tense total, deliberately not bounded to any period.
func (r *StatsRepo) ActiveServiceCount(ctx context.Context, providerID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM services WHERE provider_id = ? AND status = 'active'`
	var n int
	err := r.db.QueryRowContext(ctx, q, providerID).Scan(&n)
	return n, err
}

// ServicesCreatedBetween counts services created inside the window.
func (r *StatsRepo) ServicesCreatedBetween(ctx context.Context, providerID uint64, from, to time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM services
		WHERE provider_id = ? AND created_at >= ? AND created_at < ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, providerID, from, to).Scan(&n)
	return n, err
}

// AppointmentsBetween counts appointments occurring inside the window.
func (r *StatsRepo) AppointmentsBetween(ctx context.Context, providerID uint64, from, to time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM appointments
		WHERE provider_id = ? AND appointment_date >= ? AND appointment_date < ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, providerID, from, to).Scan(&n)
	return n, err
}

// AverageRatingBetween averages review ratings created inside the window.
// COALESCE pins the zero-review case to 0 instead of NULL.
func (r *StatsRepo) AverageRatingBetween(ctx context.Context, providerID uint64, from, to time.Time) (float64, error) {
	const q = `SELECT COALESCE(AVG(rating), 0) FROM reviews
		WHERE provider_id = ? AND created_at >= ? AND created_at < ?`
	var avg float64
	err := r.db.QueryRowContext(ctx, q, providerID, from, to).Scan(&avg)
	return avg, err
}

// RevenueBetween sums payments settled inside the window, 0 when none.
func (r *StatsRepo) RevenueBetween(ctx context.Context, providerID uint64, from, to time.Time) (float64, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE provider_id = ? AND payment_date >= ? AND payment_date < ?`
	var sum float64
	err := r.db.QueryRowContext(ctx, q, providerID, from, to).Scan(&sum)
	return sum, err
}

// AppointmentsByMonth returns appointment counts grouped by calendar
// month ("2006-01" keys) for appointments at or after from.
func (r *StatsRepo) AppointmentsByMonth(ctx context.Context, providerID uint64, from time.Time) (map[string]int, error) {
	const q = `SELECT DATE_FORMAT(appointment_date, '%Y-%m') AS month, COUNT(*)
		FROM appointments
		WHERE provider_id = ? AND appointment_date >= ?
		GROUP BY month`
	rows, err := r.db.QueryContext(ctx, q, providerID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var month string
		var n int
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		out[month] = n
	}
	return out, rows.Err()
}

// RevenueByMonth returns payment sums grouped by calendar month for
// payments at or after from.
func (r *StatsRepo) RevenueByMonth(ctx context.Context, providerID uint64, from time.Time) (map[string]float64, error) {
	const q = `SELECT DATE_FORMAT(payment_date, '%Y-%m') AS month, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE provider_id = ? AND payment_date >= ?
		GROUP BY month`
	rows, err := r.db.QueryContext(ctx, q, providerID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var month string
		var sum float64
		if err := rows.Scan(&month, &sum); err != nil {
			return nil, err
		}
		out[month] = sum
	}
	return out, rows.Err()
}
