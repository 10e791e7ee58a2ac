package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccess("507f1f77bcf86cd799439011", "admin")
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAccessTokenExpires(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	token, err := issuer.IssueAccess("507f1f77bcf86cd799439011", "learner")
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = issuer.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenRejectsTampering(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.IssueAccess("507f1f77bcf86cd799439011", "learner")
	require.NoError(t, err)

	other := NewTokenIssuer(TokenConfig{AccessSecret: "other", RefreshSecret: "x", AccessTTL: time.Minute, RefreshTTL: time.Minute})
	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseAccess(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	issuer := newTestIssuer()

	refresh, err := issuer.IssueRefresh("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	_, err = issuer.ParseAccess(refresh.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := issuer.IssueAccess("507f1f77bcf86cd799439011", "learner")
	require.NoError(t, err)
	_, err = issuer.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokensAreDistinct(t *testing.T) {
	issuer := newTestIssuer()
	fixed := time.Now()
	issuer.now = func() time.Time { return fixed }

	a, err := issuer.IssueRefresh("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	b, err := issuer.IssueRefresh("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, a.Hash, b.Hash)
	assert.Equal(t, HashRefreshToken(a.Token), a.Hash)
	assert.Equal(t, fixed.Add(7*24*time.Hour), a.ExpiresAt)

	claims, err := issuer.ParseRefresh(a.Token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
}
