package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamboard/api/internal/auth"
)

func newTokenService(key string) auth.TokenService {
	return auth.NewTokenService([]byte(key), 72, "test-issuer", []string{"test:audience"}, nil)
}

func TestTokenServiceGenerate(t *testing.T) {
	ts := newTokenService("test-signing-key")

	identity := TestIdentity{id: "user-123", role: "admin", active: true}

	token, err := ts.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "user-123", claims.Subject())
	assert.Equal(t, "admin", claims.Role())
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("employee"))
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), claims.Expires(), time.Minute)
}

func TestTokenServiceValidate(t *testing.T) {
	ts := newTokenService("test-signing-key")

	t.Run("Expired token", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   "user-123",
				Audience:  jwt.ClaimStrings{"test:audience"},
				IssuedAt:  jwt.NewNumericDate(past),
				ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			},
			UID:      "user-123",
			UserRole: "admin",
		}

		signed, err := ts.SignClaims(claims)
		require.NoError(t, err)

		_, err = ts.Validate(signed)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("Wrong signing key", func(t *testing.T) {
		other := newTokenService("a-different-key")

		token, err := other.Generate(TestIdentity{id: "user-123", role: "admin"})
		require.NoError(t, err)

		_, err = ts.Validate(token)
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		other := auth.NewTokenService([]byte("test-signing-key"), 72, "other-issuer", []string{"test:audience"}, nil)

		token, err := other.Generate(TestIdentity{id: "user-123", role: "admin"})
		require.NoError(t, err)

		_, err = ts.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Garbage input", func(t *testing.T) {
		_, err := ts.Validate("definitely.not.a-jwt")
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Missing subject claim", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Audience:  jwt.ClaimStrings{"test:audience"},
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}

		signed, err := ts.SignClaims(claims)
		require.NoError(t, err)

		_, err = ts.Validate(signed)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})
}

func TestSignClaimsWithoutKey(t *testing.T) {
	ts := auth.NewTokenService(nil, 72, "test-issuer", nil, nil)

	_, err := ts.Generate(TestIdentity{id: "user-123", role: "admin"})
	assert.ErrorIs(t, err, auth.ErrSigningKeyMissing)
}
