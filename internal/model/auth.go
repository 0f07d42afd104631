package model

import (
	"time"

	"github.com/google/uuid"
)

type TokenClaims struct {
	PrincipalID uuid.UUID
	Role        Role
	Name        string
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
