package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusApproved || s == BookingStatusRejected
}

// ScheduledTherapy is one (therapy, date) assignment on an approved booking.
type ScheduledTherapy struct {
	TherapyID   uuid.UUID `db:"therapy_id" json:"therapy_id"`
	TherapyName string    `db:"therapy_name" json:"therapy_name,omitempty"`
	Date        time.Time `db:"scheduled_date" json:"date"`
}

type Booking struct {
	Base
	PatientID      uuid.UUID     `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID     `db:"practitioner_id" json:"practitioner_id"`
	Status         BookingStatus `db:"status" json:"status"`
	RequestedAt    time.Time     `db:"requested_at" json:"requested_at"`
	Notes          string        `db:"notes" json:"notes,omitempty"`

	ScheduledTherapies []ScheduledTherapy `db:"-" json:"scheduled_therapies"`

	// joined for display, populated by list queries only
	PatientName      string `db:"patient_name" json:"patient_name,omitempty"`
	PatientMobile    string `db:"patient_mobile" json:"patient_mobile,omitempty"`
	PractitionerName string `db:"practitioner_name" json:"practitioner_name,omitempty"`
}

type CreateBookingRequest struct {
	PractitionerID string `json:"practitioner_id" binding:"required,uuid"`
	Notes          string `json:"notes" binding:"max=2000"`
}

type ScheduledTherapyInput struct {
	TherapyID string    `json:"therapy_id" binding:"required,uuid"`
	Date      time.Time `json:"date" binding:"required"`
}

type ApproveBookingRequest struct {
	// nil means keep the existing schedule; an empty slice clears it.
	ScheduledTherapies []ScheduledTherapyInput `json:"scheduled_therapies"`
}

// TherapyDayCount is an aggregate of scheduled sessions for one therapy on
// one calendar day.
type TherapyDayCount struct {
	TherapyID uuid.UUID `db:"therapy_id"`
	Day       time.Time `db:"day"`
	Count     int       `db:"count"`
}
