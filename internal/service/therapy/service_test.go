package therapy

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository/mock"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

func intPtr(i int) *int          { return &i }
func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCreate_DefaultCapacity(t *testing.T) {
	repo := &mock.TherapyRepository{
		CreateFunc: func(ctx context.Context, therapy *model.Therapy) error { return nil },
	}
	svc := NewService(repo)

	therapy, err := svc.Create(context.Background(), uuid.New(), &model.CreateTherapyRequest{
		Name:        "acupressure",
		Description: "pressure point work",
		Price:       50,
		Duration:    "45m",
	})

	require.NoError(t, err)
	assert.Equal(t, model.DefaultMaxPatientsPerDay, therapy.MaxPatientsPerDay)
}

func TestCreate_ExplicitCapacity(t *testing.T) {
	repo := &mock.TherapyRepository{
		CreateFunc: func(ctx context.Context, therapy *model.Therapy) error { return nil },
	}
	svc := NewService(repo)

	therapy, err := svc.Create(context.Background(), uuid.New(), &model.CreateTherapyRequest{
		Name:              "acupressure",
		Description:       "pressure point work",
		Price:             50,
		Duration:          "45m",
		MaxPatientsPerDay: intPtr(2),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, therapy.MaxPatientsPerDay)
}

func TestUpdate_PartialApply(t *testing.T) {
	practitionerID := uuid.New()
	existing := &model.Therapy{
		Base:              model.Base{ID: uuid.New()},
		PractitionerID:    practitionerID,
		Name:              "cupping",
		Description:       "original",
		Price:             40,
		Duration:          "30m",
		MaxPatientsPerDay: 5,
	}
	repo := &mock.TherapyRepository{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.Therapy, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, therapy *model.Therapy) error { return nil },
	}
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), practitionerID, existing.ID, &model.UpdateTherapyRequest{
		Price: floatPtr(55),
		Name:  strPtr("fire cupping"),
	})

	require.NoError(t, err)
	assert.Equal(t, "fire cupping", updated.Name)
	assert.Equal(t, 55.0, updated.Price)
	assert.Equal(t, "original", updated.Description)
	assert.Equal(t, 5, updated.MaxPatientsPerDay)
}

func TestUpdate_ForeignTherapyHidden(t *testing.T) {
	repo := &mock.TherapyRepository{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.Therapy, error) {
			return &model.Therapy{Base: model.Base{ID: id}, PractitionerID: uuid.New()}, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &model.UpdateTherapyRequest{})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mock.TherapyRepository{
		DeleteFunc: func(ctx context.Context, id, practitionerID uuid.UUID) error {
			return sql.ErrNoRows
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
