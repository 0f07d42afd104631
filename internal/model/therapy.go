package model

import "github.com/google/uuid"

// DefaultMaxPatientsPerDay is the capacity cap applied when a therapy is
// created without one.
const DefaultMaxPatientsPerDay = 5

type Therapy struct {
	Base
	PractitionerID    uuid.UUID `db:"practitioner_id" json:"practitioner_id"`
	Name              string    `db:"name" json:"name"`
	Description       string    `db:"description" json:"description"`
	Price             float64   `db:"price" json:"price"`
	Duration          string    `db:"duration" json:"duration"`
	VideoURL          *string   `db:"video_url" json:"video_url,omitempty"`
	MaxPatientsPerDay int       `db:"max_patients_per_day" json:"max_patients_per_day"`
}

type TherapySummary struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Price    float64   `db:"price" json:"price"`
	Duration string    `db:"duration" json:"duration"`
}

type CreateTherapyRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description" binding:"required"`
	Price             float64 `json:"price" binding:"required,gt=0"`
	Duration          string  `json:"duration" binding:"required"`
	VideoURL          *string `json:"video_url"`
	MaxPatientsPerDay *int    `json:"max_patients_per_day" binding:"omitempty,gt=0"`
}

type UpdateTherapyRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price" binding:"omitempty,gt=0"`
	Duration          *string  `json:"duration"`
	VideoURL          *string  `json:"video_url"`
	MaxPatientsPerDay *int     `json:"max_patients_per_day" binding:"omitempty,gt=0"`
}
