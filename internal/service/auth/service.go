package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
	"github.com/jwalitptl/wellness-api/pkg/auth"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

const bcryptCost = 12

type Service struct {
	patientRepo      repository.PatientRepository
	practitionerRepo repository.PractitionerRepository
	jwtSvc           auth.JWTService
}

func NewService(patientRepo repository.PatientRepository, practitionerRepo repository.PractitionerRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		patientRepo:      patientRepo,
		practitionerRepo: practitionerRepo,
		jwtSvc:           jwtSvc,
	}
}

func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, *model.TokenResponse, error) {
	if _, err := s.patientRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, apperrors.InvalidInput("email already in use", nil)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	patient := &model.Patient{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Age:          req.Age,
		Mobile:       req.Mobile,
		AltMobile:    req.AltMobile,
		Gender:       req.Gender,
	}
	if req.Location != nil {
		now := time.Now()
		patient.LastLatitude = &req.Location.Latitude
		patient.LastLongitude = &req.Location.Longitude
		patient.LastAccuracy = req.Location.Accuracy
		patient.LastLocationAt = &now
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, nil, fmt.Errorf("failed to create patient: %w", err)
	}

	token, err := s.jwtSvc.Generate(model.Principal{ID: patient.ID, Role: model.RolePatient}, patient.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return patient, token, nil
}

func (s *Service) LoginPatient(ctx context.Context, req *model.LoginRequest) (*model.Patient, *model.TokenResponse, error) {
	patient, err := s.patientRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	// refresh last known location when the client shares one
	if req.Location != nil {
		if err := s.patientRepo.UpdateLastLocation(ctx, patient.ID,
			req.Location.Latitude, req.Location.Longitude, req.Location.Accuracy); err != nil {
			return nil, nil, fmt.Errorf("failed to update location: %w", err)
		}
		now := time.Now()
		patient.LastLatitude = &req.Location.Latitude
		patient.LastLongitude = &req.Location.Longitude
		patient.LastAccuracy = req.Location.Accuracy
		patient.LastLocationAt = &now
	}

	token, err := s.jwtSvc.Generate(model.Principal{ID: patient.ID, Role: model.RolePatient}, patient.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return patient, token, nil
}

func (s *Service) RegisterPractitioner(ctx context.Context, req *model.RegisterPractitionerRequest) (*model.Practitioner, *model.TokenResponse, error) {
	if _, err := s.practitionerRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, apperrors.InvalidInput("email already in use", nil)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	practitioner := &model.Practitioner{
		Name:         req.Name,
		ClinicName:   req.ClinicName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Mobile:       req.Mobile,
		AltMobile:    req.AltMobile,
		Gender:       req.Gender,
		LicenseRef:   req.LicenseRef,
	}
	if req.Location != nil {
		now := time.Now()
		practitioner.Latitude = &req.Location.Latitude
		practitioner.Longitude = &req.Location.Longitude
		if req.Location.Address != "" {
			practitioner.Address = &req.Location.Address
		}
		practitioner.LocationAt = &now
	}

	if err := s.practitionerRepo.Create(ctx, practitioner); err != nil {
		return nil, nil, fmt.Errorf("failed to create practitioner: %w", err)
	}

	token, err := s.jwtSvc.Generate(model.Principal{ID: practitioner.ID, Role: model.RolePractitioner}, practitioner.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return practitioner, token, nil
}

func (s *Service) LoginPractitioner(ctx context.Context, req *model.LoginRequest) (*model.Practitioner, *model.TokenResponse, error) {
	practitioner, err := s.practitionerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, nil, fmt.Errorf("failed to get practitioner: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(practitioner.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	token, err := s.jwtSvc.Generate(model.Principal{ID: practitioner.ID, Role: model.RolePractitioner}, practitioner.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return practitioner, token, nil
}

// ValidateToken is used by the auth middleware.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.Validate(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}
	return claims, nil
}
