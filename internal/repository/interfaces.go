package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error)
	UpdateLastLocation(ctx context.Context, id uuid.UUID, lat, lng float64, accuracy *float64) error
}

type PractitionerRepository interface {
	Create(ctx context.Context, practitioner *model.Practitioner) error
	Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error)
	GetByEmail(ctx context.Context, email string) (*model.Practitioner, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Practitioner, error)
	ListWithLocation(ctx context.Context) ([]*model.Practitioner, error)
}

type TherapyRepository interface {
	Create(ctx context.Context, therapy *model.Therapy) error
	Get(ctx context.Context, id uuid.UUID) (*model.Therapy, error)
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Therapy, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Therapy, error)
	Update(ctx context.Context, therapy *model.Therapy) error
	Delete(ctx context.Context, id, practitionerID uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	// Get returns the booking with its schedule loaded.
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListPendingForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Booking, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error)

	// ScheduledCounts aggregates scheduled sessions per therapy per calendar
	// day over [from, to). Used by the advisory availability computation.
	ScheduledCounts(ctx context.Context, therapyIDs []uuid.UUID, from, to time.Time) ([]model.TherapyDayCount, error)

	// ApproveWithSchedule transitions a pending booking to approved and
	// replaces its schedule in a single transaction, re-checking every
	// (therapy, day) count against the cap with the therapy row locked.
	// Returns Conflict when the booking turned terminal or a cap would be
	// exceeded. A non-nil schedule replaces wholesale; nil keeps the current
	// one. evt, when non-nil, is written to the outbox in the same
	// transaction.
	ApproveWithSchedule(ctx context.Context, bookingID uuid.UUID, schedule []model.ScheduledTherapy, evt *model.OutboxEvent) error

	// Reject transitions a pending booking to rejected; Conflict when the
	// booking is already terminal.
	Reject(ctx context.Context, bookingID uuid.UUID, evt *model.OutboxEvent) error

	// ApprovedCounterpartyIDs lists the other party of every approved
	// booking the principal takes part in.
	ApprovedCounterpartyIDs(ctx context.Context, principal model.Principal) ([]uuid.UUID, error)
}

type MessageRepository interface {
	// Create stores the message and, when evt is non-nil, the outbox event
	// in the same transaction.
	Create(ctx context.Context, msg *model.Message, evt *model.OutboxEvent) error
	// Thread returns both directions of the conversation between the two
	// principals, oldest first.
	Thread(ctx context.Context, a, b model.Principal) ([]*model.Message, error)
	// Summaries groups the principal's messages by counterparty and reports
	// each group's most recent message and unread-to-principal count.
	Summaries(ctx context.Context, principal model.Principal) ([]*model.ConversationSummary, error)
	// MarkRead flags every unread message from sender to receiver as read
	// and returns the number of rows touched.
	MarkRead(ctx context.Context, receiver, sender model.Principal) (int64, error)
}

type RatingRepository interface {
	// Upsert writes the rating, replacing an earlier one by the same patient
	// for the same therapy.
	Upsert(ctx context.Context, rating *model.Rating) error
	AverageForPractitioner(ctx context.Context, practitionerID uuid.UUID) (float64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
