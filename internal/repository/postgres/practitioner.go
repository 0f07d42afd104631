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

const practitionerColumns = `
	id, name, clinic_name, email, password_hash, mobile, alt_mobile, gender,
	latitude, longitude, address, location_at, license_ref, verified,
	created_at, updated_at
`

func (r *practitionerRepository) Create(ctx context.Context, practitioner *model.Practitioner) error {
	query := `
		INSERT INTO practitioners (
			id, name, clinic_name, email, password_hash, mobile, alt_mobile,
			gender, latitude, longitude, address, location_at, license_ref,
			verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	practitioner.ID = uuid.New()
	practitioner.CreatedAt = time.Now()
	practitioner.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		practitioner.ID,
		practitioner.Name,
		practitioner.ClinicName,
		practitioner.Email,
		practitioner.PasswordHash,
		practitioner.Mobile,
		practitioner.AltMobile,
		practitioner.Gender,
		practitioner.Latitude,
		practitioner.Longitude,
		practitioner.Address,
		practitioner.LocationAt,
		practitioner.LicenseRef,
		practitioner.Verified,
		practitioner.CreatedAt,
		practitioner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	query := `SELECT ` + practitionerColumns + ` FROM practitioners WHERE id = $1`

	var practitioner model.Practitioner
	if err := r.db.GetContext(ctx, &practitioner, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &practitioner, nil
}

func (r *practitionerRepository) GetByEmail(ctx context.Context, email string) (*model.Practitioner, error) {
	query := `SELECT ` + practitionerColumns + ` FROM practitioners WHERE email = $1`

	var practitioner model.Practitioner
	if err := r.db.GetContext(ctx, &practitioner, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get practitioner by email: %w", err)
	}
	return &practitioner, nil
}

func (r *practitionerRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Practitioner, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+practitionerColumns+` FROM practitioners WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build practitioner query: %w", err)
	}

	var practitioners []*model.Practitioner
	if err := r.db.SelectContext(ctx, &practitioners, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	return practitioners, nil
}

func (r *practitionerRepository) ListWithLocation(ctx context.Context) ([]*model.Practitioner, error) {
	query := `
		SELECT ` + practitionerColumns + `
		FROM practitioners
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	`
	var practitioners []*model.Practitioner
	if err := r.db.SelectContext(ctx, &practitioners, query); err != nil {
		return nil, fmt.Errorf("failed to list practitioners with location: %w", err)
	}
	return practitioners, nil
}
