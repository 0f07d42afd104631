package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/wellness-api/internal/model"
)

const therapyColumns = `
	id, practitioner_id, name, description, price, duration, video_url,
	max_patients_per_day, created_at, updated_at
`

func (r *therapyRepository) Create(ctx context.Context, therapy *model.Therapy) error {
	query := `
		INSERT INTO therapies (
			id, practitioner_id, name, description, price, duration,
			video_url, max_patients_per_day, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	therapy.ID = uuid.New()
	therapy.CreatedAt = time.Now()
	therapy.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		therapy.ID,
		therapy.PractitionerID,
		therapy.Name,
		therapy.Description,
		therapy.Price,
		therapy.Duration,
		therapy.VideoURL,
		therapy.MaxPatientsPerDay,
		therapy.CreatedAt,
		therapy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create therapy: %w", err)
	}
	return nil
}

func (r *therapyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Therapy, error) {
	query := `SELECT ` + therapyColumns + ` FROM therapies WHERE id = $1`

	var therapy model.Therapy
	if err := r.db.GetContext(ctx, &therapy, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get therapy: %w", err)
	}
	return &therapy, nil
}

func (r *therapyRepository) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*model.Therapy, error) {
	query := `
		SELECT ` + therapyColumns + `
		FROM therapies
		WHERE practitioner_id = $1
		ORDER BY created_at ASC
	`
	var therapies []*model.Therapy
	if err := r.db.SelectContext(ctx, &therapies, query, practitionerID); err != nil {
		return nil, fmt.Errorf("failed to list therapies: %w", err)
	}
	return therapies, nil
}

func (r *therapyRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Therapy, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+therapyColumns+` FROM therapies WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build therapy query: %w", err)
	}

	var therapies []*model.Therapy
	if err := r.db.SelectContext(ctx, &therapies, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list therapies: %w", err)
	}
	return therapies, nil
}

// Update never touches practitioner_id; the owning practitioner is fixed at
// creation.
func (r *therapyRepository) Update(ctx context.Context, therapy *model.Therapy) error {
	query := `
		UPDATE therapies
		SET name = $1, description = $2, price = $3, duration = $4,
			video_url = $5, max_patients_per_day = $6, updated_at = $7
		WHERE id = $8 AND practitioner_id = $9
	`
	therapy.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		therapy.Name,
		therapy.Description,
		therapy.Price,
		therapy.Duration,
		therapy.VideoURL,
		therapy.MaxPatientsPerDay,
		therapy.UpdatedAt,
		therapy.ID,
		therapy.PractitionerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update therapy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *therapyRepository) Delete(ctx context.Context, id, practitionerID uuid.UUID) error {
	query := `DELETE FROM therapies WHERE id = $1 AND practitioner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, practitionerID)
	if err != nil {
		return fmt.Errorf("failed to delete therapy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
