package rating

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
	ratingRepo  repository.RatingRepository
	therapyRepo repository.TherapyRepository
}

func NewService(ratingRepo repository.RatingRepository, therapyRepo repository.TherapyRepository) *Service {
	return &Service{ratingRepo: ratingRepo, therapyRepo: therapyRepo}
}

// Rate records the patient's score for a therapy, replacing any earlier
// rating they gave it. The practitioner is derived from the therapy so
// averages stay consistent if a therapy is ever reassigned.
func (s *Service) Rate(ctx context.Context, patientID uuid.UUID, req *model.RateTherapyRequest) (*model.Rating, error) {
	if req.Score < 0 || req.Score > 5 {
		return nil, apperrors.InvalidInput("score must be between 0 and 5", nil)
	}
	therapyID, err := uuid.Parse(req.TherapyID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid therapy id", err)
	}

	therapy, err := s.therapyRepo.Get(ctx, therapyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("therapy", err)
		}
		return nil, fmt.Errorf("failed to get therapy: %w", err)
	}

	rating := &model.Rating{
		PatientID:      patientID,
		PractitionerID: therapy.PractitionerID,
		TherapyID:      therapyID,
		Score:          req.Score,
		Comment:        req.Comment,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	return rating, nil
}
