package model

import "github.com/google/uuid"

// Role distinguishes the two identity spaces. Patient and practitioner ids
// live in separate tables, so an id alone does not identify a message
// endpoint; the role tag must always travel with it.
type Role string

const (
	RolePatient      Role = "patient"
	RolePractitioner Role = "practitioner"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RolePractitioner
}

// Opposite returns the counterparty role of a conversation.
func (r Role) Opposite() Role {
	if r == RolePatient {
		return RolePractitioner
	}
	return RolePatient
}

// Principal is an authenticated caller: a patient or a practitioner.
type Principal struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}
