package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/email"
	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
	"github.com/jwalitptl/wellness-api/internal/service/event"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
	"github.com/jwalitptl/wellness-api/pkg/logger"
)

type Service struct {
	bookingRepo      repository.BookingRepository
	therapyRepo      repository.TherapyRepository
	patientRepo      repository.PatientRepository
	practitionerRepo repository.PractitionerRepository
	eventSvc         *event.Service
	mailer           email.Sender
	logger           *logger.Logger
}

// NewService wires the booking workflow. mailer may be nil, in which case
// decision mails are skipped.
func NewService(
	bookingRepo repository.BookingRepository,
	therapyRepo repository.TherapyRepository,
	patientRepo repository.PatientRepository,
	practitionerRepo repository.PractitionerRepository,
	eventSvc *event.Service,
	mailer email.Sender,
	log *logger.Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		therapyRepo:      therapyRepo,
		patientRepo:      patientRepo,
		practitionerRepo: practitionerRepo,
		eventSvc:         eventSvc,
		mailer:           mailer,
		logger:           log,
	}
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	practitionerID, err := uuid.Parse(req.PractitionerID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid practitioner id", err)
	}

	if _, err := s.practitionerRepo.Get(ctx, practitionerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("practitioner", err)
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}

	booking := &model.Booking{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Status:         model.BookingStatusPending,
		RequestedAt:    time.Now(),
		Notes:          req.Notes,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, event.TypeBookingCreated, map[string]interface{}{
		"booking_id":      booking.ID,
		"patient_id":      patientID,
		"practitioner_id": practitionerID,
	}); err != nil {
		s.logger.Error(err, "failed to emit booking.created", "booking_id", booking.ID)
	}
	return booking, nil
}

func (s *Service) PendingForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.ListPendingForPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Approve validates ownership and the submitted schedule, then hands off to
// the repository, which re-checks the booking state and every capacity cap
// under row locks. A nil schedule keeps the one already stored.
func (s *Service) Approve(ctx context.Context, practitionerID, bookingID uuid.UUID, req *model.ApproveBookingRequest) (*model.Booking, error) {
	booking, err := s.loadOwned(ctx, practitionerID, bookingID)
	if err != nil {
		return nil, err
	}

	var schedule []model.ScheduledTherapy
	if req.ScheduledTherapies != nil {
		schedule, err = s.buildSchedule(ctx, practitionerID, req.ScheduledTherapies)
		if err != nil {
			return nil, err
		}
	}

	evt, err := event.NewEvent(event.TypeBookingApproved, map[string]interface{}{
		"booking_id":      bookingID,
		"patient_id":      booking.PatientID,
		"practitioner_id": practitionerID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.ApproveWithSchedule(ctx, bookingID, schedule, evt); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, booking, model.BookingStatusApproved)

	approved, err := s.bookingRepo.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	return approved, nil
}

func (s *Service) Reject(ctx context.Context, practitionerID, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.loadOwned(ctx, practitionerID, bookingID)
	if err != nil {
		return nil, err
	}

	evt, err := event.NewEvent(event.TypeBookingRejected, map[string]interface{}{
		"booking_id":      bookingID,
		"patient_id":      booking.PatientID,
		"practitioner_id": practitionerID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Reject(ctx, bookingID, evt); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, booking, model.BookingStatusRejected)

	booking.Status = model.BookingStatusRejected
	return booking, nil
}

func (s *Service) loadOwned(ctx context.Context, practitionerID, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking.PractitionerID != practitionerID {
		return nil, apperrors.Forbidden("booking belongs to another practitioner")
	}
	if booking.Status.Terminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("booking is already %s", booking.Status), nil)
	}
	return booking, nil
}

// buildSchedule resolves the submitted entries against the practitioner's
// own therapies. An empty input yields an empty, non-nil schedule, which
// clears the stored one.
func (s *Service) buildSchedule(ctx context.Context, practitionerID uuid.UUID, inputs []model.ScheduledTherapyInput) ([]model.ScheduledTherapy, error) {
	schedule := make([]model.ScheduledTherapy, 0, len(inputs))
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		id, err := uuid.Parse(in.TherapyID)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid therapy id", err)
		}
		ids = append(ids, id)
		schedule = append(schedule, model.ScheduledTherapy{TherapyID: id, Date: in.Date})
	}
	if len(ids) == 0 {
		return schedule, nil
	}

	therapies, err := s.therapyRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load therapies: %w", err)
	}
	owned := make(map[uuid.UUID]bool, len(therapies))
	for _, t := range therapies {
		if t.PractitionerID == practitionerID {
			owned[t.ID] = true
		}
	}
	for _, id := range ids {
		if !owned[id] {
			return nil, apperrors.InvalidInput(fmt.Sprintf("therapy %s is not offered by this practitioner", id), nil)
		}
	}
	return schedule, nil
}

// notifyDecision mails the patient about the outcome. Delivery failures are
// logged, never surfaced; the decision itself has already committed.
func (s *Service) notifyDecision(ctx context.Context, booking *model.Booking, status model.BookingStatus) {
	if s.mailer == nil {
		return
	}
	patient, err := s.patientRepo.Get(ctx, booking.PatientID)
	if err != nil {
		s.logger.Error(err, "failed to load patient for decision mail", "booking_id", booking.ID)
		return
	}
	practitioner, err := s.practitionerRepo.Get(ctx, booking.PractitionerID)
	if err != nil {
		s.logger.Error(err, "failed to load practitioner for decision mail", "booking_id", booking.ID)
		return
	}
	if err := s.mailer.SendBookingDecision(patient.Email, patient.Name, practitioner.ClinicName, status); err != nil {
		s.logger.Error(err, "failed to send decision mail", "booking_id", booking.ID)
	}
}
