package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("s3cret", "")
	require.NoError(t, err)

	token, err := tm.GenerateToken("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, DefaultIssuer, claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	tm, err := NewTokenManager("s3cret", "")
	require.NoError(t, err)

	expired, err := tm.GenerateToken("ops", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = tm.ValidateToken(expired)
	assert.Error(t, err)

	other, err := NewTokenManager("another-secret", "")
	require.NoError(t, err)
	foreign, err := other.GenerateToken("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = tm.ValidateToken(foreign)
	assert.Error(t, err)

	otherIssuer, err := NewTokenManager("s3cret", "someone-else")
	require.NoError(t, err)
	wrongIss, err := otherIssuer.GenerateToken("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = tm.ValidateToken(wrongIss)
	assert.Error(t, err)

	_, err = tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", "")
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSubjectAndRole(t *testing.T) {
	tm, err := NewTokenManager("s3cret", "")
	require.NoError(t, err)
	_, err = tm.GenerateToken("", RoleAdmin, time.Hour)
	assert.Error(t, err)
	_, err = tm.GenerateToken("ops", "", time.Hour)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	tok, err := ExtractToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, bad := range []string{"", "Bearer", "Basic dXNlcjpwYXNz", "Bearer a b"} {
		_, err := ExtractToken(bad)
		assert.Error(t, err, bad)
	}
}
