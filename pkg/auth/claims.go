package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	IsStaff     bool
	IsSuperuser bool
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      uuid.UUID `json:"user_id"`
	IsStaff     bool      `json:"is_staff,omitempty"`
	IsSuperuser bool      `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}
