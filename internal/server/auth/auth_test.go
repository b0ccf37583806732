package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geolists/internal/common"
)

func TestEditToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateEditToken("s1", secret, time.Hour)
	require.NoError(t, err)

	id, err := GetShareIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
}

func TestEditToken_WrongSecret(t *testing.T) {
	token, err := GenerateEditToken("s1", []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = GetShareIDFromToken(token, []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrInvalidEditToken)
}

func TestEditToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateEditToken("s1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetShareIDFromToken(token, secret)
	assert.ErrorIs(t, err, common.ErrInvalidEditToken)
}

func TestEditToken_Garbage(t *testing.T) {
	_, err := GetShareIDFromToken("not-a-token", []byte("s"))
	assert.ErrorIs(t, err, common.ErrInvalidEditToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotContains(t, string(hash), "hunter2")

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword(nil, "hunter2"))
}
