package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
)

func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO ratings (
			id, patient_id, practitioner_id, therapy_id, score, comment,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (patient_id, therapy_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment,
			updated_at = EXCLUDED.updated_at
	`
	rating.ID = uuid.New()
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		rating.ID,
		rating.PatientID,
		rating.PractitionerID,
		rating.TherapyID,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) AverageForPractitioner(ctx context.Context, practitionerID uuid.UUID) (float64, error) {
	query := `
		SELECT COALESCE(avg(score), 0) FROM ratings WHERE practitioner_id = $1
	`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, practitionerID); err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}
