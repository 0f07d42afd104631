package model

import "github.com/google/uuid"

type Rating struct {
	Base
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID `db:"practitioner_id" json:"practitioner_id"`
	TherapyID      uuid.UUID `db:"therapy_id" json:"therapy_id"`
	Score          float64   `db:"score" json:"score"`
	Comment        *string   `db:"comment" json:"comment,omitempty"`
}

type RateTherapyRequest struct {
	TherapyID string  `json:"therapy_id" binding:"required,uuid"`
	Score     float64 `json:"score" binding:"min=0,max=5"`
	Comment   *string `json:"comment"`
}
