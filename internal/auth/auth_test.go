package auth

import (
	"testing"
	"time"

	"github.com/aashikantkumar/cheifidea/config"
	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *Issuer {
	return NewIssuer(config.AuthConfig{
		AccessTokenSecret:  "access",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenSecret: "refresh",
		RefreshTokenExpiry: time.Hour,
	})
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := testIssuer()
	principal := domain.Principal{AccountID: "acc-1", Role: domain.RoleChef}

	tokens, err := issuer.Issue(principal)
	require.NoError(t, err)

	got, err := issuer.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal, got)

	got, err = issuer.ParseRefresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestIssuer_RejectsWrongKind(t *testing.T) {
	issuer := testIssuer()
	tokens, err := issuer.Issue(domain.Principal{AccountID: "acc-1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = issuer.ParseAccess(tokens.RefreshToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = issuer.ParseRefresh("not-a-token")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestIssuer_Expired(t *testing.T) {
	issuer := testIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	tokens, err := issuer.Issue(domain.Principal{AccountID: "acc-1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(tokens.AccessToken)
	assert.Error(t, err)
}

func TestIssuer_RefreshTokensAreUnique(t *testing.T) {
	issuer := testIssuer()
	p := domain.Principal{AccountID: "acc-1", Role: domain.RoleCustomer}
	first, err := issuer.Issue(p)
	require.NoError(t, err)
	second, err := issuer.Issue(p)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, issuer.HashRefresh(first.RefreshToken), issuer.HashRefresh(second.RefreshToken))
	assert.Len(t, issuer.HashRefresh(first.RefreshToken), 64)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
