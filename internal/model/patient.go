package model

import "time"

type Patient struct {
	Base
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Age          *int    `db:"age" json:"age,omitempty"`
	Mobile       string  `db:"mobile" json:"mobile"`
	AltMobile    *string `db:"alt_mobile" json:"alt_mobile,omitempty"`
	Gender       *string `db:"gender" json:"gender,omitempty"`

	// last known location, saved on register/login when supplied
	LastLatitude   *float64   `db:"last_latitude" json:"last_latitude,omitempty"`
	LastLongitude  *float64   `db:"last_longitude" json:"last_longitude,omitempty"`
	LastAccuracy   *float64   `db:"last_accuracy" json:"last_accuracy,omitempty"`
	LastLocationAt *time.Time `db:"last_location_at" json:"last_location_at,omitempty"`
}

type RegisterPatientRequest struct {
	Name      string         `json:"name" binding:"required"`
	Email     string         `json:"email" binding:"required,email"`
	Password  string         `json:"password" binding:"required,min=6"`
	Age       *int           `json:"age" binding:"omitempty,gt=0"`
	Mobile    string         `json:"mobile" binding:"required,mobile"`
	AltMobile *string        `json:"alt_mobile" binding:"omitempty,mobile"`
	Gender    *string        `json:"gender" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	Location  *LocationInput `json:"location"`
}

type LoginRequest struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
	Location *LocationInput `json:"location"`
}
