package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the JWT payload: the user id plus the registered fields
// (ExpiresAt, IssuedAt, ID/JTI, ...).
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}
