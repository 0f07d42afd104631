package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository/mock"
	jwtauth "github.com/jwalitptl/wellness-api/pkg/auth"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

func newTestService(patientRepo *mock.PatientRepository, practitionerRepo *mock.PractitionerRepository) *Service {
	return NewService(patientRepo, practitionerRepo, jwtauth.NewJWTService("test-secret", time.Hour))
}

func TestRegisterPatient(t *testing.T) {
	var created *model.Patient
	patientRepo := &mock.PatientRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*model.Patient, error) {
			return nil, sql.ErrNoRows
		},
		CreateFunc: func(ctx context.Context, p *model.Patient) error {
			p.ID = uuid.New()
			created = p
			return nil
		},
	}
	svc := newTestService(patientRepo, &mock.PractitionerRepository{})

	patient, token, err := svc.RegisterPatient(context.Background(), &model.RegisterPatientRequest{
		Name:     "Mina",
		Email:    "mina@example.com",
		Password: "secret123",
		Mobile:   "9876543210",
	})

	require.NoError(t, err)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.AccessToken)
	assert.Same(t, created, patient)
	assert.NotEqual(t, "secret123", patient.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte("secret123")))
}

func TestRegisterPatient_EmailTaken(t *testing.T) {
	patientRepo := &mock.PatientRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*model.Patient, error) {
			return &model.Patient{}, nil
		},
	}
	svc := newTestService(patientRepo, &mock.PractitionerRepository{})

	_, _, err := svc.RegisterPatient(context.Background(), &model.RegisterPatientRequest{
		Name:     "Mina",
		Email:    "mina@example.com",
		Password: "secret123",
		Mobile:   "9876543210",
	})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestLoginPatient_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	patientRepo := &mock.PatientRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*model.Patient, error) {
			return &model.Patient{Base: model.Base{ID: uuid.New()}, PasswordHash: string(hash)}, nil
		},
	}
	svc := newTestService(patientRepo, &mock.PractitionerRepository{})

	_, _, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email:    "mina@example.com",
		Password: "wrong",
	})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginPatient_UnknownEmail(t *testing.T) {
	patientRepo := &mock.PatientRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*model.Patient, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := newTestService(patientRepo, &mock.PractitionerRepository{})

	_, _, err := svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginPatient_UpdatesLocation(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()

	updated := false
	patientRepo := &mock.PatientRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*model.Patient, error) {
			return &model.Patient{Base: model.Base{ID: id}, PasswordHash: string(hash)}, nil
		},
		UpdateLastLocationFunc: func(ctx context.Context, pid uuid.UUID, lat, lng float64, accuracy *float64) error {
			updated = true
			assert.Equal(t, id, pid)
			assert.Equal(t, 12.9, lat)
			assert.Equal(t, 77.6, lng)
			return nil
		},
	}
	svc := newTestService(patientRepo, &mock.PractitionerRepository{})

	patient, _, err := svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email:    "mina@example.com",
		Password: "secret123",
		Location: &model.LocationInput{Latitude: 12.9, Longitude: 77.6},
	})

	require.NoError(t, err)
	assert.True(t, updated)
	require.NotNil(t, patient.LastLatitude)
	assert.Equal(t, 12.9, *patient.LastLatitude)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := newTestService(&mock.PatientRepository{}, &mock.PractitionerRepository{})
	jwtSvc := jwtauth.NewJWTService("test-secret", time.Hour)

	principal := model.Principal{ID: uuid.New(), Role: model.RolePatient}
	token, err := jwtSvc.Generate(principal, "Mina")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, claims.PrincipalID)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
