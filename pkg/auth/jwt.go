package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
)

// JWTService issues and verifies access tokens carrying a principal id and
// role. Both patients and practitioners share the same token format; the
// role claim keeps the identity spaces apart.
type JWTService interface {
	Generate(principal model.Principal, name string) (*model.TokenResponse, error)
	Validate(token string) (*model.TokenClaims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) Generate(principal model.Principal, name string) (*model.TokenResponse, error) {
	expiresAt := time.Now().Add(s.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  principal.ID.String(),
		"role": string(principal.Role),
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.TokenResponse{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func (s *jwtService) Validate(tokenStr string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	principalID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid principal ID in token")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !model.Role(roleStr).Valid() {
		return nil, fmt.Errorf("invalid role in token")
	}

	name, _ := claims["name"].(string)

	return &model.TokenClaims{
		PrincipalID: principalID,
		Role:        model.Role(roleStr),
		Name:        name,
	}, nil
}
