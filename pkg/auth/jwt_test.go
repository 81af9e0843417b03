package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medex/marketplace-api/internal/model"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.GenerateIdentityToken("org-genesis")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	addr, err := svc.ValidateIdentityToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.Address("org-genesis"), addr)
}

func TestIdentityTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.GenerateIdentityToken("org-genesis")
	require.NoError(t, err)

	_, err = svc.ValidateIdentityToken(token)
	assert.Error(t, err)
}

func TestIdentityTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).GenerateIdentityToken("org-genesis")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).ValidateIdentityToken(token)
	assert.Error(t, err)
}

func TestIdentityTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	_, err := svc.ValidateIdentityToken("not-a-token")
	assert.Error(t, err)
}

func TestAccessTokenScope(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	records := []uuid.UUID{uuid.New(), uuid.New()}

	token, err := svc.IssueAccessToken("org-buyer", 7, records, time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "org-buyer", claims.Buyer)
	assert.Equal(t, uint64(7), claims.ListingID)
	require.Len(t, claims.RecordIDs, 2)
	assert.Equal(t, records[0].String(), claims.RecordIDs[0])
	assert.Equal(t, records[1].String(), claims.RecordIDs[1])
}

func TestAccessTokenExpiresWithWindow(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.IssueAccessToken("org-buyer", 7, nil, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestAccessTokensAreUnique(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	exp := time.Now().Add(time.Hour)

	a, err := svc.IssueAccessToken("org-buyer", 7, nil, exp)
	require.NoError(t, err)
	b, err := svc.IssueAccessToken("org-buyer", 7, nil, exp)
	require.NoError(t, err)

	// each grant carries its own nonce
	assert.NotEqual(t, a, b)
}
