package postgres

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mk
}

func TestScheduleSlots_GroupsByDayAndSortsByTherapy(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	slots := scheduleSlots([]model.ScheduledTherapy{
		{TherapyID: second, Date: day.Add(9 * time.Hour)},
		{TherapyID: first, Date: day.Add(15 * time.Hour)},
		{TherapyID: first, Date: day.Add(11 * time.Hour)},
	})

	require.Len(t, slots, 2)
	assert.Equal(t, first, slots[0].TherapyID)
	assert.Equal(t, day, slots[0].Day)
	assert.Equal(t, 2, slots[0].Requested)
	assert.Equal(t, second, slots[1].TherapyID)
	assert.Equal(t, 1, slots[1].Requested)
}

func TestScheduleSlots_SeparatesDays(t *testing.T) {
	therapy := uuid.New()
	monday := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	tuesday := monday.Add(24 * time.Hour)

	slots := scheduleSlots([]model.ScheduledTherapy{
		{TherapyID: therapy, Date: monday},
		{TherapyID: therapy, Date: tuesday},
	})

	require.Len(t, slots, 2)
	assert.True(t, slots[0].Day.Before(slots[1].Day))
	assert.Equal(t, 1, slots[0].Requested)
	assert.Equal(t, 1, slots[1].Requested)
}

func TestExceedsCap(t *testing.T) {
	// cap 2: a second approval still fits, a third does not
	assert.False(t, exceedsCap(1, 1, 2))
	assert.True(t, exceedsCap(2, 1, 2))

	assert.False(t, exceedsCap(0, 2, 2))
	assert.True(t, exceedsCap(0, 3, 2))
}

func TestApproveWithSchedule_AtCapSucceeds(t *testing.T) {
	db, mk := newMockDB(t)
	repo := &bookingRepository{NewBaseRepository(db)}

	bookingID := uuid.New()
	therapyID := uuid.New()
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	mk.ExpectBegin()
	mk.ExpectQuery(`SELECT status FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mk.ExpectExec(`DELETE FROM booking_therapies`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectQuery(`SELECT max_patients_per_day FROM therapies`).
		WillReturnRows(sqlmock.NewRows([]string{"max_patients_per_day"}).AddRow(2))
	mk.ExpectQuery(`SELECT count\(\*\) FROM booking_therapies`).
		WithArgs(therapyID, day, day.Add(24*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mk.ExpectExec(`INSERT INTO booking_therapies`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mk.ExpectExec(`UPDATE bookings SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mk.ExpectCommit()

	err := repo.ApproveWithSchedule(context.Background(), bookingID,
		[]model.ScheduledTherapy{{TherapyID: therapyID, Date: day.Add(10 * time.Hour)}}, nil)

	require.NoError(t, err)
	assert.NoError(t, mk.ExpectationsWereMet())
}

func TestApproveWithSchedule_OverCapConflicts(t *testing.T) {
	db, mk := newMockDB(t)
	repo := &bookingRepository{NewBaseRepository(db)}

	bookingID := uuid.New()
	therapyID := uuid.New()
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	mk.ExpectBegin()
	mk.ExpectQuery(`SELECT status FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mk.ExpectExec(`DELETE FROM booking_therapies`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectQuery(`SELECT max_patients_per_day FROM therapies`).
		WillReturnRows(sqlmock.NewRows([]string{"max_patients_per_day"}).AddRow(2))
	mk.ExpectQuery(`SELECT count\(\*\) FROM booking_therapies`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mk.ExpectRollback()

	err := repo.ApproveWithSchedule(context.Background(), bookingID,
		[]model.ScheduledTherapy{{TherapyID: therapyID, Date: day.Add(10 * time.Hour)}}, nil)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	assert.NoError(t, mk.ExpectationsWereMet())
}

func TestApproveWithSchedule_TerminalBookingConflicts(t *testing.T) {
	db, mk := newMockDB(t)
	repo := &bookingRepository{NewBaseRepository(db)}

	mk.ExpectBegin()
	mk.ExpectQuery(`SELECT status FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))
	mk.ExpectRollback()

	err := repo.ApproveWithSchedule(context.Background(), uuid.New(), nil, nil)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	assert.NoError(t, mk.ExpectationsWereMet())
}

func TestApproveWithSchedule_UnknownTherapyInvalid(t *testing.T) {
	db, mk := newMockDB(t)
	repo := &bookingRepository{NewBaseRepository(db)}

	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	mk.ExpectBegin()
	mk.ExpectQuery(`SELECT status FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mk.ExpectExec(`DELETE FROM booking_therapies`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectQuery(`SELECT max_patients_per_day FROM therapies`).
		WillReturnRows(sqlmock.NewRows([]string{"max_patients_per_day"}))
	mk.ExpectRollback()

	err := repo.ApproveWithSchedule(context.Background(), uuid.New(),
		[]model.ScheduledTherapy{{TherapyID: uuid.New(), Date: day}}, nil)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
	assert.NoError(t, mk.ExpectationsWereMet())
}
