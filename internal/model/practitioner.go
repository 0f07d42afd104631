package model

import "time"

type Practitioner struct {
	Base
	Name         string  `db:"name" json:"name"`
	ClinicName   string  `db:"clinic_name" json:"clinic_name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Mobile       string  `db:"mobile" json:"mobile"`
	AltMobile    *string `db:"alt_mobile" json:"alt_mobile,omitempty"`
	Gender       *string `db:"gender" json:"gender,omitempty"`

	Latitude   *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude  *float64   `db:"longitude" json:"longitude,omitempty"`
	Address    *string    `db:"address" json:"address,omitempty"`
	LocationAt *time.Time `db:"location_at" json:"location_at,omitempty"`

	// LicenseRef is an opaque reference to an already-uploaded license
	// document; upload handling lives outside this service.
	LicenseRef *string `db:"license_ref" json:"license_ref,omitempty"`
	Verified   bool    `db:"verified" json:"verified"`
}

type RegisterPractitionerRequest struct {
	Name       string         `json:"name" binding:"required"`
	ClinicName string         `json:"clinic_name" binding:"required"`
	Email      string         `json:"email" binding:"required,email"`
	Password   string         `json:"password" binding:"required,min=6"`
	Mobile     string         `json:"mobile" binding:"required,mobile"`
	AltMobile  *string        `json:"alt_mobile" binding:"omitempty,mobile"`
	Gender     *string        `json:"gender" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	Location   *LocationInput `json:"location"`
	LicenseRef *string        `json:"license_ref"`
}

// PractitionerModule is the browse-view of a practitioner: clinic contact
// details, average rating and a summary of the therapies on offer.
type PractitionerModule struct {
	ID         string           `json:"id"`
	ClinicName string           `json:"clinic_name"`
	Mobile     string           `json:"mobile"`
	AltMobile  *string          `json:"alt_mobile,omitempty"`
	Email      string           `json:"email"`
	Rating     float64          `json:"rating"`
	Distance   float64          `json:"distance"`
	Therapies  []TherapySummary `json:"therapies"`
}
