package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// Claims represents the custom claims structure for JWT tokens.
// It extends the RegisteredClaims from the jwt package with an
// additional UserID field.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}
