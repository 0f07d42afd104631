package practitioner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository/mock"
)

func ptr(f float64) *float64 { return &f }

func TestNearbyModules_SortsByDistanceAndCaps(t *testing.T) {
	var practitioners []*model.Practitioner
	for i := 0; i < 12; i++ {
		practitioners = append(practitioners, &model.Practitioner{
			Base:       model.Base{ID: uuid.New()},
			ClinicName: "clinic",
			Latitude:   ptr(10.0 + float64(i+1)),
			Longitude:  ptr(20.0),
		})
	}
	// closest last in the listing to prove ordering is by distance
	closest := &model.Practitioner{
		Base:       model.Base{ID: uuid.New()},
		ClinicName: "closest",
		Latitude:   ptr(10.001),
		Longitude:  ptr(20.0),
	}
	practitioners = append(practitioners, closest)

	practitionerRepo := &mock.PractitionerRepository{
		ListWithLocationFunc: func(ctx context.Context) ([]*model.Practitioner, error) {
			return practitioners, nil
		},
	}
	therapyRepo := &mock.TherapyRepository{
		ListByPractitionerFunc: func(ctx context.Context, id uuid.UUID) ([]*model.Therapy, error) {
			return []*model.Therapy{{Base: model.Base{ID: uuid.New()}, Name: "cupping", Price: 40, Duration: "30m"}}, nil
		},
	}
	ratingRepo := &mock.RatingRepository{
		AverageForPractitionerFunc: func(ctx context.Context, id uuid.UUID) (float64, error) {
			return 4.5, nil
		},
	}
	svc := NewService(practitionerRepo, therapyRepo, ratingRepo)

	modules, err := svc.NearbyModules(context.Background(), 10.0, 20.0)

	require.NoError(t, err)
	require.Len(t, modules, 10)
	assert.Equal(t, "closest", modules[0].ClinicName)
	assert.Equal(t, 4.5, modules[0].Rating)
	require.Len(t, modules[0].Therapies, 1)
	assert.Equal(t, "cupping", modules[0].Therapies[0].Name)
	for i := 1; i < len(modules); i++ {
		assert.LessOrEqual(t, modules[i-1].Distance, modules[i].Distance)
	}
}

func TestNearbyModules_SkipsUnlocated(t *testing.T) {
	located := &model.Practitioner{Base: model.Base{ID: uuid.New()}, Latitude: ptr(1), Longitude: ptr(1)}
	unlocated := &model.Practitioner{Base: model.Base{ID: uuid.New()}}

	svc := NewService(
		&mock.PractitionerRepository{
			ListWithLocationFunc: func(ctx context.Context) ([]*model.Practitioner, error) {
				return []*model.Practitioner{located, unlocated}, nil
			},
		},
		&mock.TherapyRepository{
			ListByPractitionerFunc: func(ctx context.Context, id uuid.UUID) ([]*model.Therapy, error) {
				return nil, nil
			},
		},
		&mock.RatingRepository{
			AverageForPractitionerFunc: func(ctx context.Context, id uuid.UUID) (float64, error) {
				return 0, nil
			},
		},
	)

	modules, err := svc.NearbyModules(context.Background(), 1, 1)

	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, located.ID.String(), modules[0].ID)
}

func TestNearbyModules_CachesByRoundedCoordinate(t *testing.T) {
	calls := 0
	svc := NewService(
		&mock.PractitionerRepository{
			ListWithLocationFunc: func(ctx context.Context) ([]*model.Practitioner, error) {
				calls++
				return nil, nil
			},
		},
		&mock.TherapyRepository{},
		&mock.RatingRepository{},
	)

	_, err := svc.NearbyModules(context.Background(), 12.34567, 76.54321)
	require.NoError(t, err)
	_, err = svc.NearbyModules(context.Background(), 12.34599, 76.54299)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
