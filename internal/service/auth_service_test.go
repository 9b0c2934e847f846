package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func institutionalClaims(issuer string) models.JWTClaims {
	return models.JWTClaims{
		UserCode: "estu-1",
		Role:     models.RoleStudent,
		Email:    "estu1@uni.edu",
		FullName: "Ana Rojas",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "estu-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "siga"})
	signed := signToken(t, "secret", institutionalClaims("siga"))

	claims, err := svc.ValidateToken(signed)

	require.NoError(t, err)
	assert.Equal(t, "estu-1", claims.UserCode)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "siga"})
	signed := signToken(t, "other", institutionalClaims("siga"))

	_, err := svc.ValidateToken(signed)

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, typed.Code)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "siga"})
	signed := signToken(t, "secret", institutionalClaims("someone-else"))

	_, err := svc.ValidateToken(signed)

	require.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "siga"})
	claims := institutionalClaims("siga")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	signed := signToken(t, "secret", claims)

	_, err := svc.ValidateToken(signed)

	require.Error(t, err)
}

func TestValidateTokenMissingUserCode(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "siga"})
	claims := institutionalClaims("siga")
	claims.UserCode = ""
	signed := signToken(t, "secret", claims)

	_, err := svc.ValidateToken(signed)

	require.Error(t, err)
}

func TestValidateTokenUnknownRole(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "siga"})
	claims := institutionalClaims("siga")
	claims.Role = "VISITOR"
	signed := signToken(t, "secret", claims)

	_, err := svc.ValidateToken(signed)

	require.Error(t, err)
}
