package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// window records the [from, to) bounds a store method was queried with.
type window struct {
	from, to time.Time
}

// fakeStore returns canned aggregates keyed by month start and records the
// windows it was asked about.
type fakeStore struct {
	active       int
	newServices  map[time.Time]int
	appointments map[time.Time]int
	ratings      map[time.Time]float64
	revenue      map[time.Time]float64

	byMonthAppts   map[string]int
	byMonthRevenue map[string]float64

	windows    []window
	seriesFrom time.Time
}

func (f *fakeStore) ActiveServiceCount(_ context.Context, _ uint64) (int, error) {
	return f.active, nil
}

func (f *fakeStore) ServicesCreatedBetween(_ context.Context, _ uint64, from, to time.Time) (int, error) {
	f.windows = append(f.windows, window{from, to})
	return f.newServices[from], nil
}

func (f *fakeStore) AppointmentsBetween(_ context.Context, _ uint64, from, to time.Time) (int, error) {
	return f.appointments[from], nil
}

func (f *fakeStore) AverageRatingBetween(_ context.Context, _ uint64, from, to time.Time) (float64, error) {
	return f.ratings[from], nil
}

func (f *fakeStore) RevenueBetween(_ context.Context, _ uint64, from, to time.Time) (float64, error) {
	return f.revenue[from], nil
}

func (f *fakeStore) AppointmentsByMonth(_ context.Context, _ uint64, from time.Time) (map[string]int, error) {
	f.seriesFrom = from
	return f.byMonthAppts, nil
}

func (f *fakeStore) RevenueByMonth(_ context.Context, _ uint64, from time.Time) (map[string]float64, error) {
	return f.byMonthRevenue, nil
}

func engineAt(store Store, at time.Time) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return at }
	return e
}

var (
	aug = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	jul = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	sep = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
)

func TestDashboardStatsMonthWindows(t *testing.T) {
	store := &fakeStore{}
	e := engineAt(store, time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC))

	_, err := e.DashboardStats(context.Background(), 7)
	require.NoError(t, err)

	// current month first, then previous; both half-open on month starts
	require.Len(t, store.windows, 2)
	assert.Equal(t, window{aug, sep}, store.windows[0])
	assert.Equal(t, window{jul, aug}, store.windows[1])
}

func TestDashboardStatsValues(t *testing.T) {
	store := &fakeStore{
		active:       12,
		newServices:  map[time.Time]int{aug: 3, jul: 1},
		appointments: map[time.Time]int{aug: 20, jul: 15},
		ratings:      map[time.Time]float64{aug: 4.5, jul: 4.0},
		revenue:      map[time.Time]float64{aug: 1500, jul: 1000},
	}
	e := engineAt(store, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	d, err := e.DashboardStats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 12, d.TotalServices)
	assert.Equal(t, 2, d.ServicesDelta)
	assert.Equal(t, 20, d.TotalAppointments)
	assert.Equal(t, 5, d.AppointmentsDelta)
	assert.Equal(t, 4.5, d.AverageRating)
	assert.InDelta(t, 0.5, d.RatingDelta, 1e-9)
	assert.Equal(t, 1500.0, d.TotalRevenue)
	assert.Equal(t, 50, d.RevenueDelta)
}

// A provider with no prior month gets a raw count delta but neutral rating
// and revenue deltas. The three policies are intentionally different.
func TestDashboardStatsZeroBaseline(t *testing.T) {
	store := &fakeStore{
		active:       5,
		newServices:  map[time.Time]int{aug: 5},
		appointments: map[time.Time]int{aug: 8},
		ratings:      map[time.Time]float64{aug: 4.8},
		revenue:      map[time.Time]float64{aug: 900},
	}
	e := engineAt(store, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))

	d, err := e.DashboardStats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 5, d.ServicesDelta, "count delta stays raw from zero")
	assert.Equal(t, 8, d.AppointmentsDelta)
	assert.Equal(t, 0.0, d.RatingDelta, "no prior rating means no change reported")
	assert.Equal(t, 0, d.RevenueDelta, "zero prior revenue suppresses the percent")
}

func TestDeltaPolicies(t *testing.T) {
	assert.Equal(t, 5, countDelta(5, 0))
	assert.Equal(t, -3, countDelta(2, 5))

	assert.Equal(t, 0.0, ratingDelta(4.5, 0))
	assert.InDelta(t, -0.5, ratingDelta(4.0, 4.5), 1e-9)

	assert.Equal(t, 0, revenuePercentDelta(500, 0))
	assert.Equal(t, -50, revenuePercentDelta(5, 10))
	assert.Equal(t, 50, revenuePercentDelta(15, 10))
	assert.Equal(t, 33, revenuePercentDelta(400, 300), "rounded to nearest whole percent")
	assert.Equal(t, -100, revenuePercentDelta(0, 10))
}

func TestPerformanceSeriesFixedWidth(t *testing.T) {
	store := &fakeStore{
		byMonthAppts:   map[string]int{"2026-06": 4, "2026-08": 9},
		byMonthRevenue: map[string]float64{"2026-06": 250.5},
	}
	e := engineAt(store, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	series, err := e.PerformanceSeries(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, series, 6)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), store.seriesFrom)

	names := make([]string, 0, 6)
	for _, p := range series {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Mar", "Apr", "May", "Jun", "Jul", "Aug"}, names)

	// months without activity stay in the series zero-filled
	assert.Equal(t, SeriesPoint{Name: "Mar", Appointments: 0, Revenue: 0}, series[0])
	assert.Equal(t, SeriesPoint{Name: "Jun", Appointments: 4, Revenue: 250.5}, series[3])
	assert.Equal(t, SeriesPoint{Name: "Aug", Appointments: 9, Revenue: 0}, series[5])
}

func TestPerformanceSeriesEmptyStore(t *testing.T) {
	e := engineAt(&fakeStore{}, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	series, err := e.PerformanceSeries(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, series, 6)
	for _, p := range series {
		assert.Zero(t, p.Appointments)
		assert.Zero(t, p.Revenue)
	}
	assert.Equal(t, "Aug", series[0].Name)
	assert.Equal(t, "Jan", series[5].Name)
}
