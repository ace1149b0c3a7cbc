package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims are the claims carried by identity-provider access tokens.
// The user id is the registered subject.
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}
