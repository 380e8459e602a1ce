package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/classroom-auth/internal/utils"
)

func TestRandomHexLength(t *testing.T) {
	tok, err := utils.RandomHex(4)
	require.NoError(t, err)
	assert.Len(t, tok, 8)

	other, err := utils.RandomHex(4)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestHashTokenDeterministic(t *testing.T) {
	a := utils.HashToken("some-refresh-token")
	b := utils.HashToken("some-refresh-token")
	c := utils.HashToken("another-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("pw12345678", 4)
	require.NoError(t, err)

	assert.True(t, utils.VerifyPassword(hash, "pw12345678"))
	assert.False(t, utils.VerifyPassword(hash, "wrong-password"))
}
