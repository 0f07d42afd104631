package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

const dateFormat = "2006-01-02"

// Policy is the availability window policy: how far ahead dates are offered
// and which weekday is never offered.
type Policy struct {
	HorizonDays   int
	ClosedWeekday time.Weekday
}

func DefaultPolicy() Policy {
	return Policy{HorizonDays: 30, ClosedWeekday: time.Sunday}
}

type Service struct {
	therapyRepo repository.TherapyRepository
	bookingRepo repository.BookingRepository
	policy      Policy

	// now is swapped in tests to pin the clock
	now func() time.Time
}

func NewService(therapyRepo repository.TherapyRepository, bookingRepo repository.BookingRepository, policy Policy) *Service {
	if policy.HorizonDays <= 0 {
		policy.HorizonDays = DefaultPolicy().HorizonDays
	}
	return &Service{
		therapyRepo: therapyRepo,
		bookingRepo: bookingRepo,
		policy:      policy,
		now:         time.Now,
	}
}

// AvailableDates reports, for each calendar date in the lookahead window,
// which of the requested therapies still have open capacity. Dates where no
// requested therapy is available are omitted. The result is advisory only;
// approval re-checks capacity transactionally.
func (s *Service) AvailableDates(ctx context.Context, therapyIDs []uuid.UUID, horizonDays int) (map[string][]uuid.UUID, error) {
	if len(therapyIDs) == 0 {
		return nil, apperrors.InvalidInput("at least one therapy is required", nil)
	}
	if horizonDays <= 0 {
		horizonDays = s.policy.HorizonDays
	}

	therapies, err := s.therapyRepo.ListByIDs(ctx, therapyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load therapies: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Therapy, len(therapies))
	for _, t := range therapies {
		byID[t.ID] = t
	}
	for _, id := range therapyIDs {
		if _, ok := byID[id]; !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("therapy %s does not exist", id), nil)
		}
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, horizonDays)

	counts, err := s.bookingRepo.ScheduledCounts(ctx, therapyIDs, today, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduled sessions: %w", err)
	}

	type slot struct {
		therapyID uuid.UUID
		day       string
	}
	booked := make(map[slot]int, len(counts))
	for _, c := range counts {
		booked[slot{c.TherapyID, c.Day.Format(dateFormat)}] = c.Count
	}

	available := make(map[string][]uuid.UUID)
	for day := today; day.Before(horizon); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == s.policy.ClosedWeekday {
			continue
		}
		key := day.Format(dateFormat)

		var open []uuid.UUID
		for _, id := range therapyIDs {
			if booked[slot{id, key}] < byID[id].MaxPatientsPerDay {
				open = append(open, id)
			}
		}
		if len(open) > 0 {
			available[key] = open
		}
	}
	return available, nil
}
