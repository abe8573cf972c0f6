package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appointmentColumns = []string{
	"id", "user_id", "name", "email", "service_id", "s_name",
	"appointment_date", "appointment_time", "status", "notes", "created_at",
}

func appointmentRow(id uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns).AddRow(
		id, 3, "Jane Doe", "jane@example.com", 9, "Oil Change",
		time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), "10:00", status,
		"", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	)
}

func newAppointmentRepo(t *testing.T) (*AppointmentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAppointmentRepo(db), mock
}

func TestAppointmentGetByIDConjoinsOwnership(t *testing.T) {
	repo, mock := newAppointmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ? AND a.provider_id = ?")).
		WithArgs(uint64(5), uint64(7)).
		WillReturnRows(appointmentRow(5, "pending"))

	d, err := repo.GetByID(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), d.ID)
	assert.Equal(t, "Jane Doe", d.CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A row owned by another provider matches zero rows, indistinguishable
// from an id that does not exist at all.
func TestAppointmentGetByIDForeignRow(t *testing.T) {
	repo, mock := newAppointmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ? AND a.provider_id = ?")).
		WithArgs(uint64(5), uint64(8)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(context.Background(), 5, 8)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Status filter plus limit: the ownership scope leads, the optional
// predicate follows, the fixed sort precedes LIMIT, and every placeholder
// binds in that order.
func TestAppointmentListFilteredStatement(t *testing.T) {
	repo, mock := newAppointmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE a.provider_id = ? AND a.status = ? " +
			"ORDER BY a.appointment_date ASC, a.appointment_time ASC LIMIT ?",
	)).
		WithArgs(uint64(7), "pending", int64(10)).
		WillReturnRows(appointmentRow(5, "pending"))

	limit := int64(10)
	list, err := repo.ListByProvider(context.Background(), 7, AppointmentFilters{
		Status: "pending",
		Limit:  &limit,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentListUnfilteredStatement(t *testing.T) {
	repo, mock := newAppointmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE a.provider_id = ? ORDER BY a.appointment_date ASC, a.appointment_time ASC",
	)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	list, err := repo.ListByProvider(context.Background(), 7, AppointmentFilters{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Update checks ownership, writes only the patched columns plus
// updated_at with the scope repeated in the WHERE, and returns both the
// prior and the re-read row.
func TestAppointmentUpdateSparsePatch(t *testing.T) {
	repo, mock := newAppointmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ? AND a.provider_id = ?")).
		WithArgs(uint64(5), uint64(7)).
		WillReturnRows(appointmentRow(5, "pending"))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE appointments SET status = ?, updated_at = ? WHERE id = ? AND provider_id = ?",
	)).
		WithArgs("confirmed", sqlmock.AnyArg(), uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ? AND a.provider_id = ?")).
		WithArgs(uint64(5), uint64(7)).
		WillReturnRows(appointmentRow(5, "confirmed"))

	patch := (&Patch{}).Set("status", "confirmed")
	prev, cur, err := repo.Update(context.Background(), 5, 7, patch)
	require.NoError(t, err)
	assert.Equal(t, "pending", prev.Status)
	assert.Equal(t, "confirmed", cur.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The ownership check runs before the patch is inspected, so an empty
// patch against a foreign id still reports not-found and an empty patch
// against an owned row reaches ErrNoFields without writing anything.
func TestAppointmentUpdateOrdering(t *testing.T) {
	t.Run("foreign id wins over empty patch", func(t *testing.T) {
		repo, mock := newAppointmentRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ? AND a.provider_id = ?")).
			WithArgs(uint64(5), uint64(8)).
			WillReturnRows(sqlmock.NewRows(appointmentColumns))

		_, _, err := repo.Update(context.Background(), 5, 8, &Patch{})
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("owned row with empty patch", func(t *testing.T) {
		repo, mock := newAppointmentRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ? AND a.provider_id = ?")).
			WithArgs(uint64(5), uint64(7)).
			WillReturnRows(appointmentRow(5, "pending"))

		_, _, err := repo.Update(context.Background(), 5, 7, &Patch{})
		assert.ErrorIs(t, err, ErrNoFields)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
