package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload of bearer tokens issued by the institutional
// identity provider. This service only validates and reads them.
type JWTClaims struct {
	UserCode string   `json:"user_code"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
