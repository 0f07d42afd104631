package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	principal := model.Principal{ID: uuid.New(), Role: model.RolePractitioner}

	token, err := svc.Generate(principal, "Dr. Rao")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, claims.PrincipalID)
	assert.Equal(t, model.RolePractitioner, claims.Role)
	assert.Equal(t, "Dr. Rao", claims.Name)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).Generate(
		model.Principal{ID: uuid.New(), Role: model.RolePatient}, "x")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).Validate(token.AccessToken)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	token, err := NewJWTService("secret", -time.Minute).Generate(
		model.Principal{ID: uuid.New(), Role: model.RolePatient}, "x")
	require.NoError(t, err)

	_, err = NewJWTService("secret", -time.Minute).Validate(token.AccessToken)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).Validate("not-a-token")
	assert.Error(t, err)
}
