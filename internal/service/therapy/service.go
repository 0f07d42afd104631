package therapy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

type Service struct {
	repo repository.TherapyRepository
}

func NewService(repo repository.TherapyRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, practitionerID uuid.UUID) ([]*model.Therapy, error) {
	therapies, err := s.repo.ListByPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapies: %w", err)
	}
	return therapies, nil
}

func (s *Service) Create(ctx context.Context, practitionerID uuid.UUID, req *model.CreateTherapyRequest) (*model.Therapy, error) {
	therapy := &model.Therapy{
		PractitionerID:    practitionerID,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Duration:          req.Duration,
		VideoURL:          req.VideoURL,
		MaxPatientsPerDay: model.DefaultMaxPatientsPerDay,
	}
	if req.MaxPatientsPerDay != nil {
		therapy.MaxPatientsPerDay = *req.MaxPatientsPerDay
	}

	if err := s.repo.Create(ctx, therapy); err != nil {
		return nil, fmt.Errorf("failed to create therapy: %w", err)
	}
	return therapy, nil
}

func (s *Service) Update(ctx context.Context, practitionerID, therapyID uuid.UUID, req *model.UpdateTherapyRequest) (*model.Therapy, error) {
	therapy, err := s.repo.Get(ctx, therapyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("therapy", err)
		}
		return nil, fmt.Errorf("failed to get therapy: %w", err)
	}
	// a therapy owned by someone else is invisible to the caller
	if therapy.PractitionerID != practitionerID {
		return nil, apperrors.NotFound("therapy", nil)
	}

	if req.Name != nil {
		therapy.Name = *req.Name
	}
	if req.Description != nil {
		therapy.Description = *req.Description
	}
	if req.Price != nil {
		therapy.Price = *req.Price
	}
	if req.Duration != nil {
		therapy.Duration = *req.Duration
	}
	if req.VideoURL != nil {
		therapy.VideoURL = req.VideoURL
	}
	if req.MaxPatientsPerDay != nil {
		therapy.MaxPatientsPerDay = *req.MaxPatientsPerDay
	}

	if err := s.repo.Update(ctx, therapy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("therapy", err)
		}
		return nil, fmt.Errorf("failed to update therapy: %w", err)
	}
	return therapy, nil
}

func (s *Service) Delete(ctx context.Context, practitionerID, therapyID uuid.UUID) error {
	if err := s.repo.Delete(ctx, therapyID, practitionerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("therapy", err)
		}
		return fmt.Errorf("failed to delete therapy: %w", err)
	}
	return nil
}
