package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret-test-secret-test-secret", "supplytrace", time.Minute)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "SUPPLIER")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "SUPPLIER", claims.Role)

	var raw jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &raw)
	require.NoError(t, err)
	assert.Equal(t, m.TTL(), raw.ExpiresAt.Sub(raw.IssuedAt.Time))
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret-a", "supplytrace", time.Minute)
	other := NewTokenManager("secret-b", "supplytrace", time.Minute)
	wrongIssuer := NewTokenManager("secret-a", "someone-else", time.Minute)
	expired := NewTokenManager("secret-a", "supplytrace", -time.Minute)

	foreign, err := other.GenerateAccessToken(uuid.New(), "OWNER")
	require.NoError(t, err)
	issued, err := wrongIssuer.GenerateAccessToken(uuid.New(), "OWNER")
	require.NoError(t, err)
	stale, err := expired.GenerateAccessToken(uuid.New(), "OWNER")
	require.NoError(t, err)
	nilSubject, err := m.GenerateAccessToken(uuid.Nil, "OWNER")
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"wrong issuer": issued,
		"expired":      stale,
		"nil subject":  nilSubject,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateAccessToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
