// Package mock provides function-field test doubles for the repository
// interfaces. Tests set only the fields they need; calling an unset field
// panics, which surfaces unexpected repository use.
package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
)

type PatientRepository struct {
	CreateFunc             func(ctx context.Context, patient *model.Patient) error
	GetFunc                func(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*model.Patient, error)
	ListByIDsFunc          func(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error)
	UpdateLastLocationFunc func(ctx context.Context, id uuid.UUID, lat, lng float64, accuracy *float64) error
}

func (m *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return m.CreateFunc(ctx, patient)
}

func (m *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return m.GetFunc(ctx, id)
}

func (m *PatientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *PatientRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error) {
	return m.ListByIDsFunc(ctx, ids)
}

func (m *PatientRepository) UpdateLastLocation(ctx context.Context, id uuid.UUID, lat, lng float64, accuracy *float64) error {
	return m.UpdateLastLocationFunc(ctx, id, lat, lng, accuracy)
}

type PractitionerRepository struct {
	CreateFunc           func(ctx context.Context, practitioner *model.Practitioner) error
	GetFunc              func(ctx context.Context, id uuid.UUID) (*model.Practitioner, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*model.Practitioner, error)
	ListByIDsFunc        func(ctx context.Context, ids []uuid.UUID) ([]*model.Practitioner, error)
	ListWithLocationFunc func(ctx context.Context) ([]*model.Practitioner, error)
}

func (m *PractitionerRepository) Create(ctx context.Context, practitioner *model.Practitioner) error {
	return m.CreateFunc(ctx, practitioner)
}

func (m *PractitionerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	return m.GetFunc(ctx, id)
}

func (m *PractitionerRepository) GetByEmail(ctx context.Context, email string) (*model.Practitioner, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *PractitionerRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Practitioner, error) {
	return m.ListByIDsFunc(ctx, ids)
}

func (m *PractitionerRepository) ListWithLocation(ctx context.Context) ([]*model.Practitioner, error) {
	return m.ListWithLocationFunc(ctx)
}

type TherapyRepository struct {
	CreateFunc             func(ctx context.Context, therapy *model.Therapy) error
	GetFunc                func(ctx context.Context, id uuid.UUID) (*model.Therapy, error)
	ListByPractitionerFunc func(ctx context.Context, practitionerID uuid.UUID) ([]*model.Therapy, error)
	ListByIDsFunc          func(ctx context.Context, ids []uuid.UUID) ([]*model.Therapy, error)
	UpdateFunc             func(ctx context.Context, therapy *model.Therapy) error
	DeleteFunc             func(ctx context.Context, id, practitionerID uuid.UUID) error
}

func (m *TherapyRepository) Create(ctx context.Context, therapy *model.Therapy) error {
	return m.CreateFunc(ctx, therapy)
}

func (m *TherapyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Therapy, error) {
	return m.GetFunc(ctx, id)
}

func (m *TherapyRepository) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Therapy, error) {
	return m.ListByPractitionerFunc(ctx, practitionerID)
}

func (m *TherapyRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Therapy, error) {
	return m.ListByIDsFunc(ctx, ids)
}

func (m *TherapyRepository) Update(ctx context.Context, therapy *model.Therapy) error {
	return m.UpdateFunc(ctx, therapy)
}

func (m *TherapyRepository) Delete(ctx context.Context, id, practitionerID uuid.UUID) error {
	return m.DeleteFunc(ctx, id, practitionerID)
}

type BookingRepository struct {
	CreateFunc                     func(ctx context.Context, booking *model.Booking) error
	GetFunc                        func(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListPendingForPractitionerFunc func(ctx context.Context, practitionerID uuid.UUID) ([]*model.Booking, error)
	ListForPatientFunc             func(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error)
	ScheduledCountsFunc            func(ctx context.Context, therapyIDs []uuid.UUID, from, to time.Time) ([]model.TherapyDayCount, error)
	ApproveWithScheduleFunc        func(ctx context.Context, bookingID uuid.UUID, schedule []model.ScheduledTherapy, evt *model.OutboxEvent) error
	RejectFunc                     func(ctx context.Context, bookingID uuid.UUID, evt *model.OutboxEvent) error
	ApprovedCounterpartyIDsFunc    func(ctx context.Context, principal model.Principal) ([]uuid.UUID, error)
}

func (m *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return m.CreateFunc(ctx, booking)
}

func (m *BookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return m.GetFunc(ctx, id)
}

func (m *BookingRepository) ListPendingForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Booking, error) {
	return m.ListPendingForPractitionerFunc(ctx, practitionerID)
}

func (m *BookingRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error) {
	return m.ListForPatientFunc(ctx, patientID)
}

func (m *BookingRepository) ScheduledCounts(ctx context.Context, therapyIDs []uuid.UUID, from, to time.Time) ([]model.TherapyDayCount, error) {
	return m.ScheduledCountsFunc(ctx, therapyIDs, from, to)
}

func (m *BookingRepository) ApproveWithSchedule(ctx context.Context, bookingID uuid.UUID, schedule []model.ScheduledTherapy, evt *model.OutboxEvent) error {
	return m.ApproveWithScheduleFunc(ctx, bookingID, schedule, evt)
}

func (m *BookingRepository) Reject(ctx context.Context, bookingID uuid.UUID, evt *model.OutboxEvent) error {
	return m.RejectFunc(ctx, bookingID, evt)
}

func (m *BookingRepository) ApprovedCounterpartyIDs(ctx context.Context, principal model.Principal) ([]uuid.UUID, error) {
	return m.ApprovedCounterpartyIDsFunc(ctx, principal)
}

type MessageRepository struct {
	CreateFunc    func(ctx context.Context, msg *model.Message, evt *model.OutboxEvent) error
	ThreadFunc    func(ctx context.Context, a, b model.Principal) ([]*model.Message, error)
	SummariesFunc func(ctx context.Context, principal model.Principal) ([]*model.ConversationSummary, error)
	MarkReadFunc  func(ctx context.Context, receiver, sender model.Principal) (int64, error)
}

func (m *MessageRepository) Create(ctx context.Context, msg *model.Message, evt *model.OutboxEvent) error {
	return m.CreateFunc(ctx, msg, evt)
}

func (m *MessageRepository) Thread(ctx context.Context, a, b model.Principal) ([]*model.Message, error) {
	return m.ThreadFunc(ctx, a, b)
}

func (m *MessageRepository) Summaries(ctx context.Context, principal model.Principal) ([]*model.ConversationSummary, error) {
	return m.SummariesFunc(ctx, principal)
}

func (m *MessageRepository) MarkRead(ctx context.Context, receiver, sender model.Principal) (int64, error) {
	return m.MarkReadFunc(ctx, receiver, sender)
}

type RatingRepository struct {
	UpsertFunc                 func(ctx context.Context, rating *model.Rating) error
	AverageForPractitionerFunc func(ctx context.Context, practitionerID uuid.UUID) (float64, error)
}

func (m *RatingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	return m.UpsertFunc(ctx, rating)
}

func (m *RatingRepository) AverageForPractitioner(ctx context.Context, practitionerID uuid.UUID) (float64, error) {
	return m.AverageForPractitionerFunc(ctx, practitionerID)
}

type OutboxRepository struct {
	CreateFunc                   func(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLockFunc func(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatusFunc             func(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
	DeleteProcessedBeforeFunc    func(ctx context.Context, before time.Time) (int64, error)
}

func (m *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	return m.CreateFunc(ctx, event)
}

func (m *OutboxRepository) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return m.GetPendingEventsWithLockFunc(ctx, limit)
}

func (m *OutboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	return m.UpdateStatusFunc(ctx, id, status, errorMessage, retryAt)
}

func (m *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return m.DeleteProcessedBeforeFunc(ctx, before)
}
