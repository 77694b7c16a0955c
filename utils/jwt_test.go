package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cppla/blogapi/models"
)

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService("secret", time.Hour)
	tok, err := ts.Issue(Identity{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)

	id, err := ts.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", id.ID)
	require.Equal(t, models.RoleUser, id.Role)
	require.False(t, id.IsAdmin())
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewTokenService("secret", time.Hour).Issue(Identity{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).Verify(tok)
	require.Error(t, err)
	require.Equal(t, KindUnauthorized, KindOf(err))
	require.Equal(t, "Token not valid!", MessageOf(err))
}

func TestTokenExpired(t *testing.T) {
	ts := NewTokenService("secret", time.Minute)
	issued := time.Now()
	ts.now = func() time.Time { return issued }
	tok, err := ts.Issue(Identity{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)

	ts.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = ts.Verify(tok)
	require.Equal(t, KindUnauthorized, KindOf(err))
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID:           "u1",
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Verify(tok)
	require.Equal(t, KindUnauthorized, KindOf(err))

	_, err = NewTokenService("secret", time.Hour).Verify("not-a-token")
	require.Equal(t, KindUnauthorized, KindOf(err))
}

func TestIdentityIsAdmin(t *testing.T) {
	var nilID *Identity
	require.False(t, nilID.IsAdmin())
	require.True(t, (&Identity{Role: models.RoleAdmin}).IsAdmin())
}
