package auth

import (
	"testing"
	"time"

	"qr-feedback-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("65f0c0ffee0000000000abcd", models.RoleManager)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", claims.AdvisorID)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue("abc", models.RoleAdvisor)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).Issue("abc", models.RoleAdvisor)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsGarbageAndNoneAlg(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, err := issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		AdvisorID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWithoutAdvisorID(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("", models.RoleAdvisor)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, ComparePassword(hash, "hunter22"))
	assert.False(t, ComparePassword(hash, "hunter23"))
	assert.False(t, ComparePassword("not-a-hash", "hunter22"))
}
