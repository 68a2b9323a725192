//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims gojwt.Claims, key string) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(userID int64) *jwt.Claims {
	now := time.Now()
	return &jwt.Claims{
		UserID: userID,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    jwt.Issuer,
			Audience:  gojwt.ClaimStrings{jwt.Audience},
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestService_RoundTrip(t *testing.T) {
	svc := jwt.NewService(secret, time.Hour)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestService_ValidateToken(t *testing.T) {
	svc := jwt.NewService(secret, time.Hour)

	testCases := []struct {
		name      string
		token     func(t *testing.T) string
		expectErr error
	}{
		{
			name: "expired token",
			token: func(t *testing.T) string {
				c := validClaims(1)
				c.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Hour))
				return sign(t, c, secret)
			},
			expectErr: jwt.ErrExpiredToken,
		},
		{
			name: "wrong signing key",
			token: func(t *testing.T) string {
				return sign(t, validClaims(1), "other-secret")
			},
			expectErr: jwt.ErrInvalidToken,
		},
		{
			name: "foreign issuer",
			token: func(t *testing.T) string {
				c := validClaims(1)
				c.Issuer = "someone-else"
				return sign(t, c, secret)
			},
			expectErr: jwt.ErrInvalidToken,
		},
		{
			name: "missing audience",
			token: func(t *testing.T) string {
				c := validClaims(1)
				c.Audience = nil
				return sign(t, c, secret)
			},
			expectErr: jwt.ErrInvalidToken,
		},
		{
			name: "no user id",
			token: func(t *testing.T) string {
				return sign(t, validClaims(0), secret)
			},
			expectErr: jwt.ErrInvalidToken,
		},
		{
			name: "subject disagrees with user id",
			token: func(t *testing.T) string {
				c := validClaims(7)
				c.Subject = "8"
				return sign(t, c, secret)
			},
			expectErr: jwt.ErrInvalidToken,
		},
		{
			name:      "garbage",
			token:     func(*testing.T) string { return "not-a-jwt" },
			expectErr: jwt.ErrInvalidToken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tc.token(t))

			assert.Nil(t, claims)
			assert.True(t, errs.Is(err, tc.expectErr), "got %v", err)
		})
	}
}
