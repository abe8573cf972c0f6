// Package stats computes the provider dashboard metrics: period snapshots,
// the current-versus-previous-month comparison deltas, and the trailing
// six-month performance series. All values are derived fresh from the
// datastore on every call; nothing here is cached or persisted.
package stats

import (
	"context"
	"math"
	"time"
)

// Store is the aggregate-query surface the engine needs. It is implemented
// by repository.StatsRepo; the narrow interface keeps the calendar and
// delta arithmetic testable without a database.
type Store interface {
	ActiveServiceCount(ctx context.Context, providerID uint64) (int, error)
	ServicesCreatedBetween(ctx context.Context, providerID uint64, from, to time.Time) (int, error)
	AppointmentsBetween(ctx context.Context, providerID uint64, from, to time.Time) (int, error)
	AverageRatingBetween(ctx context.Context, providerID uint64, from, to time.Time) (float64, error)
	RevenueBetween(ctx context.Context, providerID uint64, from, to time.Time) (float64, error)
	AppointmentsByMonth(ctx context.Context, providerID uint64, from time.Time) (map[string]int, error)
	RevenueByMonth(ctx context.Context, providerID uint64, from time.Time) (map[string]float64, error)
}

// Engine derives dashboard metrics for one provider at a time.
type Engine struct {
	store Store
	now   func() time.Time // overridable clock for month-window tests
}

// NewEngine returns an Engine reading aggregates from the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Snapshot holds the five metrics for one period. ServiceCount is the
// present-tense active total and ignores the period; the other four are
// bounded to it.
type Snapshot struct {
	ServiceCount     int
	NewServiceCount  int
	AppointmentCount int
	AverageRating    float64
	RevenueSum       float64
}

// Dashboard is the stats payload for the provider dashboard. The delta
// fields compare the current calendar month against the previous one,
// each under its own zero-baseline policy.
type Dashboard struct {
	TotalServices     int     `json:"totalServices"`
	ServicesDelta     int     `json:"servicesDelta"`
	TotalAppointments int     `json:"totalAppointments"`
	AppointmentsDelta int     `json:"appointmentsDelta"`
	AverageRating     float64 `json:"averageRating"`
	RatingDelta       float64 `json:"ratingDelta"`
	TotalRevenue      float64 `json:"totalRevenue"`
	RevenueDelta      int     `json:"revenueDelta"`
}

// SeriesPoint is one month of the performance chart.
type SeriesPoint struct {
	Name         string  `json:"name"`
	Appointments int     `json:"appointments"`
	Revenue      float64 `json:"revenue"`
}

// Snapshot computes the metrics for [from, to). Each metric is an
// independent scoped query; a zero-row average or sum is 0, never NaN.
func (e *Engine) Snapshot(ctx context.Context, providerID uint64, from, to time.Time) (Snapshot, error) {
	var s Snapshot
	var err error
	if s.ServiceCount, err = e.store.ActiveServiceCount(ctx, providerID); err != nil {
		return Snapshot{}, err
	}
	if s.NewServiceCount, err = e.store.ServicesCreatedBetween(ctx, providerID, from, to); err != nil {
		return Snapshot{}, err
	}
	if s.AppointmentCount, err = e.store.AppointmentsBetween(ctx, providerID, from, to); err != nil {
		return Snapshot{}, err
	}
	if s.AverageRating, err = e.store.AverageRatingBetween(ctx, providerID, from, to); err != nil {
		return Snapshot{}, err
	}
	if s.RevenueSum, err = e.store.RevenueBetween(ctx, providerID, from, to); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// DashboardStats compares the current calendar month against the previous
// one. The three delta policies are deliberately different and must not be
// unified:
//
//   - counts: raw difference, meaningful even from a zero baseline
//   - rating: difference, but 0 when there is no prior baseline to
//     compare against
//   - revenue: whole-number percent change, 0 when the previous month had
//     no revenue (division guard)
func (e *Engine) DashboardStats(ctx context.Context, providerID uint64) (Dashboard, error) {
	curStart := monthStart(e.now().UTC())
	curEnd := curStart.AddDate(0, 1, 0)
	prevStart := curStart.AddDate(0, -1, 0)

	cur, err := e.Snapshot(ctx, providerID, curStart, curEnd)
	if err != nil {
		return Dashboard{}, err
	}
	prev, err := e.Snapshot(ctx, providerID, prevStart, curStart)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		TotalServices:     cur.ServiceCount,
		ServicesDelta:     countDelta(cur.NewServiceCount, prev.NewServiceCount),
		TotalAppointments: cur.AppointmentCount,
		AppointmentsDelta: countDelta(cur.AppointmentCount, prev.AppointmentCount),
		AverageRating:     cur.AverageRating,
		RatingDelta:       ratingDelta(cur.AverageRating, prev.AverageRating),
		TotalRevenue:      cur.RevenueSum,
		RevenueDelta:      revenuePercentDelta(cur.RevenueSum, prev.RevenueSum),
	}, nil
}

// PerformanceSeries returns exactly six entries covering the trailing six
// calendar months, oldest first. Every month is pre-seeded at zero and
// overlaid with actual aggregates, so months without activity stay in the
// series instead of being omitted; the result is always chart-ready at
// fixed width.
func (e *Engine) PerformanceSeries(ctx context.Context, providerID uint64) ([]SeriesPoint, error) {
	first := monthStart(e.now().UTC()).AddDate(0, -5, 0)

	byMonthAppts, err := e.store.AppointmentsByMonth(ctx, providerID, first)
	if err != nil {
		return nil, err
	}
	byMonthRevenue, err := e.store.RevenueByMonth(ctx, providerID, first)
	if err != nil {
		return nil, err
	}

	series := make([]SeriesPoint, 0, 6)
	for i := 0; i < 6; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		series = append(series, SeriesPoint{
			Name:         m.Format("Jan"),
			Appointments: byMonthAppts[key],
			Revenue:      byMonthRevenue[key],
		})
	}
	return series, nil
}

// monthStart truncates t to the first instant of its calendar month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// countDelta is the raw difference; with a zero baseline it equals the
// current count, signaling "all new".
func countDelta(current, previous int) int { return current - previous }

// ratingDelta reports no directional change when there was no prior
// rating to compare against.
func ratingDelta(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return current - previous
}

// revenuePercentDelta is the percent change rounded to the nearest whole
// number, 0 when the previous period had no revenue.
func revenuePercentDelta(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}
