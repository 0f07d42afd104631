package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/wellness-api/internal/model"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, patient_id, practitioner_id, status, requested_at, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.PatientID,
		booking.PractitionerID,
		booking.Status,
		booking.RequestedAt,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, patient_id, practitioner_id, status, requested_at, notes,
			   created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	schedule, err := r.loadSchedules(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	booking.ScheduledTherapies = schedule[id]
	return &booking, nil
}

func (r *bookingRepository) ListPendingForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.patient_id, b.practitioner_id, b.status, b.requested_at,
			   b.notes, b.created_at, b.updated_at,
			   p.name AS patient_name, p.mobile AS patient_mobile
		FROM bookings b
		JOIN patients p ON p.id = b.patient_id
		WHERE b.practitioner_id = $1 AND b.status = $2
		ORDER BY b.requested_at DESC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, practitionerID, model.BookingStatusPending); err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.patient_id, b.practitioner_id, b.status, b.requested_at,
			   b.notes, b.created_at, b.updated_at,
			   pr.name AS practitioner_name
		FROM bookings b
		JOIN practitioners pr ON pr.id = b.practitioner_id
		WHERE b.patient_id = $1
		ORDER BY b.requested_at DESC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient bookings: %w", err)
	}

	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	schedules, err := r.loadSchedules(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.ScheduledTherapies = schedules[b.ID]
	}
	return bookings, nil
}

type scheduleRow struct {
	BookingID uuid.UUID `db:"booking_id"`
	model.ScheduledTherapy
}

func (r *bookingRepository) loadSchedules(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]model.ScheduledTherapy, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT bt.booking_id, bt.therapy_id, t.name AS therapy_name, bt.scheduled_date
		FROM booking_therapies bt
		JOIN therapies t ON t.id = bt.therapy_id
		WHERE bt.booking_id IN (?)
		ORDER BY bt.scheduled_date ASC
	`, bookingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule query: %w", err)
	}

	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	schedules := make(map[uuid.UUID][]model.ScheduledTherapy, len(bookingIDs))
	for _, row := range rows {
		schedules[row.BookingID] = append(schedules[row.BookingID], row.ScheduledTherapy)
	}
	return schedules, nil
}

func (r *bookingRepository) ScheduledCounts(ctx context.Context, therapyIDs []uuid.UUID, from, to time.Time) ([]model.TherapyDayCount, error) {
	if len(therapyIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT therapy_id, date_trunc('day', scheduled_date) AS day, count(*) AS count
		FROM booking_therapies
		WHERE therapy_id IN (?) AND scheduled_date >= ? AND scheduled_date < ?
		GROUP BY therapy_id, day
	`, therapyIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var counts []model.TherapyDayCount
	if err := r.db.SelectContext(ctx, &counts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to count scheduled therapies: %w", err)
	}
	return counts, nil
}

// ApproveWithSchedule serializes capacity checks per therapy by locking the
// therapy row before counting, so concurrent approvals cannot jointly exceed
// max_patients_per_day.
func (r *bookingRepository) ApproveWithSchedule(ctx context.Context, bookingID uuid.UUID, schedule []model.ScheduledTherapy, evt *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		status, err := lockBookingStatus(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if status.Terminal() {
			return apperrors.Conflict(fmt.Sprintf("booking already %s", status), nil)
		}

		if schedule != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM booking_therapies WHERE booking_id = $1`, bookingID); err != nil {
				return fmt.Errorf("failed to clear schedule: %w", err)
			}

			if err := r.checkCapacity(ctx, tx, schedule); err != nil {
				return err
			}

			for _, entry := range schedule {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO booking_therapies (booking_id, therapy_id, scheduled_date)
					VALUES ($1, $2, $3)
				`, bookingID, entry.TherapyID, entry.Date)
				if err != nil {
					return fmt.Errorf("failed to insert schedule entry: %w", err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3
		`, model.BookingStatusApproved, time.Now(), bookingID); err != nil {
			return fmt.Errorf("failed to approve booking: %w", err)
		}

		if evt != nil {
			if err := createOutboxEventTx(ctx, tx, evt); err != nil {
				return fmt.Errorf("failed to write outbox event: %w", err)
			}
		}
		return nil
	})
}

func (r *bookingRepository) Reject(ctx context.Context, bookingID uuid.UUID, evt *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		status, err := lockBookingStatus(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if status.Terminal() {
			return apperrors.Conflict(fmt.Sprintf("booking already %s", status), nil)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3
		`, model.BookingStatusRejected, time.Now(), bookingID); err != nil {
			return fmt.Errorf("failed to reject booking: %w", err)
		}

		if evt != nil {
			if err := createOutboxEventTx(ctx, tx, evt); err != nil {
				return fmt.Errorf("failed to write outbox event: %w", err)
			}
		}
		return nil
	})
}

func lockBookingStatus(ctx context.Context, tx *sqlx.Tx, bookingID uuid.UUID) (model.BookingStatus, error) {
	var status model.BookingStatus
	err := tx.GetContext(ctx, &status, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("failed to lock booking: %w", err)
	}
	return status, nil
}

type capacitySlot struct {
	TherapyID uuid.UUID
	Day       time.Time
	Requested int
}

// scheduleSlots groups a schedule into per-(therapy, day) slots. Slots are
// sorted by therapy id so concurrent transactions lock therapy rows in the
// same order.
func scheduleSlots(schedule []model.ScheduledTherapy) []capacitySlot {
	type key struct {
		therapyID uuid.UUID
		day       time.Time
	}
	grouped := make(map[key]int)
	for _, entry := range schedule {
		d := entry.Date
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		grouped[key{entry.TherapyID, day}]++
	}

	slots := make([]capacitySlot, 0, len(grouped))
	for k, n := range grouped {
		slots = append(slots, capacitySlot{TherapyID: k.therapyID, Day: k.day, Requested: n})
	}
	sort.Slice(slots, func(i, j int) bool {
		if c := bytes.Compare(slots[i].TherapyID[:], slots[j].TherapyID[:]); c != 0 {
			return c < 0
		}
		return slots[i].Day.Before(slots[j].Day)
	})
	return slots
}

// exceedsCap reports whether adding the requested sessions to the ones
// already scheduled would push the slot past the therapy's daily cap.
func exceedsCap(existing, requested, maxPerDay int) bool {
	return existing+requested > maxPerDay
}

// checkCapacity re-validates every (therapy, day) of the new schedule
// against the therapy's cap, holding a lock on each therapy row.
func (r *bookingRepository) checkCapacity(ctx context.Context, tx *sqlx.Tx, schedule []model.ScheduledTherapy) error {
	for _, s := range scheduleSlots(schedule) {
		var maxPerDay int
		err := tx.GetContext(ctx, &maxPerDay, `
			SELECT max_patients_per_day FROM therapies WHERE id = $1 FOR UPDATE
		`, s.TherapyID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.InvalidInput("therapy does not exist", err)
			}
			return fmt.Errorf("failed to lock therapy: %w", err)
		}

		var count int
		err = tx.GetContext(ctx, &count, `
			SELECT count(*) FROM booking_therapies
			WHERE therapy_id = $1 AND scheduled_date >= $2 AND scheduled_date < $3
		`, s.TherapyID, s.Day, s.Day.Add(24*time.Hour))
		if err != nil {
			return fmt.Errorf("failed to count scheduled sessions: %w", err)
		}

		if exceedsCap(count, s.Requested, maxPerDay) {
			return apperrors.Conflict(
				fmt.Sprintf("therapy is fully booked on %s", s.Day.Format("2006-01-02")), nil)
		}
	}
	return nil
}

func (r *bookingRepository) ApprovedCounterpartyIDs(ctx context.Context, principal model.Principal) ([]uuid.UUID, error) {
	var query string
	switch principal.Role {
	case model.RolePatient:
		query = `SELECT DISTINCT practitioner_id FROM bookings WHERE patient_id = $1 AND status = $2`
	case model.RolePractitioner:
		query = `SELECT DISTINCT patient_id FROM bookings WHERE practitioner_id = $1 AND status = $2`
	default:
		return nil, fmt.Errorf("invalid principal role: %s", principal.Role)
	}

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, principal.ID, model.BookingStatusApproved); err != nil {
		return nil, fmt.Errorf("failed to list booking counterparties: %w", err)
	}
	return ids, nil
}
