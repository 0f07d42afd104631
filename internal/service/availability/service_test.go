package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository/mock"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

func fixedNow() time.Time {
	// A Monday, so the first week exercises the Sunday skip.
	return time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)
}

func newTestService(therapies map[uuid.UUID]*model.Therapy, counts []model.TherapyDayCount) *Service {
	therapyRepo := &mock.TherapyRepository{
		ListByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]*model.Therapy, error) {
			var out []*model.Therapy
			for _, id := range ids {
				if t, ok := therapies[id]; ok {
					out = append(out, t)
				}
			}
			return out, nil
		},
	}
	bookingRepo := &mock.BookingRepository{
		ScheduledCountsFunc: func(ctx context.Context, therapyIDs []uuid.UUID, from, to time.Time) ([]model.TherapyDayCount, error) {
			return counts, nil
		},
	}
	svc := NewService(therapyRepo, bookingRepo, DefaultPolicy())
	svc.now = fixedNow
	return svc
}

func TestAvailableDates_EmptyInput(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.AvailableDates(context.Background(), nil, 0)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestAvailableDates_UnknownTherapy(t *testing.T) {
	svc := newTestService(map[uuid.UUID]*model.Therapy{}, nil)

	_, err := svc.AvailableDates(context.Background(), []uuid.UUID{uuid.New()}, 0)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestAvailableDates_SkipsClosedWeekday(t *testing.T) {
	id := uuid.New()
	svc := newTestService(map[uuid.UUID]*model.Therapy{
		id: {Base: model.Base{ID: id}, MaxPatientsPerDay: 5},
	}, nil)

	dates, err := svc.AvailableDates(context.Background(), []uuid.UUID{id}, 7)

	require.NoError(t, err)
	assert.Len(t, dates, 6)
	assert.NotContains(t, dates, "2025-03-09") // Sunday
	assert.Contains(t, dates, "2025-03-03")
	assert.Contains(t, dates, "2025-03-08")
}

func TestAvailableDates_FullDayOmitted(t *testing.T) {
	id := uuid.New()
	full := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	svc := newTestService(map[uuid.UUID]*model.Therapy{
		id: {Base: model.Base{ID: id}, MaxPatientsPerDay: 2},
	}, []model.TherapyDayCount{
		{TherapyID: id, Day: full, Count: 2},
	})

	dates, err := svc.AvailableDates(context.Background(), []uuid.UUID{id}, 7)

	require.NoError(t, err)
	assert.NotContains(t, dates, "2025-03-04")
	assert.Contains(t, dates, "2025-03-03")
}

func TestAvailableDates_PartialDayListsOpenTherapiesOnly(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestService(map[uuid.UUID]*model.Therapy{
		a: {Base: model.Base{ID: a}, MaxPatientsPerDay: 1},
		b: {Base: model.Base{ID: b}, MaxPatientsPerDay: 3},
	}, []model.TherapyDayCount{
		{TherapyID: a, Day: day, Count: 1},
		{TherapyID: b, Day: day, Count: 2},
	})

	dates, err := svc.AvailableDates(context.Background(), []uuid.UUID{a, b}, 7)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, dates["2025-03-05"])
	assert.Equal(t, []uuid.UUID{a, b}, dates["2025-03-03"])
}

func TestAvailableDates_DefaultHorizon(t *testing.T) {
	id := uuid.New()
	svc := newTestService(map[uuid.UUID]*model.Therapy{
		id: {Base: model.Base{ID: id}, MaxPatientsPerDay: 5},
	}, nil)

	dates, err := svc.AvailableDates(context.Background(), []uuid.UUID{id}, 0)

	require.NoError(t, err)
	// 30 day window starting Monday 2025-03-03 contains four Sundays.
	assert.Len(t, dates, 26)
	assert.NotContains(t, dates, "2025-04-02")
}

func TestDefaultPolicyAppliedToZeroHorizon(t *testing.T) {
	svc := NewService(&mock.TherapyRepository{}, &mock.BookingRepository{}, Policy{})

	assert.Equal(t, 30, svc.policy.HorizonDays)
}
