package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTokenSignerRejectsEmptySecret(t *testing.T) {
	assert.Error(t, InitTokenSigner(""))
	assert.Error(t, InitTokenSigner("   "))
}

func TestTokenRoundtrip(t *testing.T) {
	require.NoError(t, InitTokenSigner("unit-test-secret"))

	token, err := SignToken("maria")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	data, err := ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "maria", data.Username)
	assert.Greater(t, data.Exp, int64(0))
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	require.NoError(t, InitTokenSigner("unit-test-secret"))

	token, err := SignToken("maria")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	require.NoError(t, InitTokenSigner("key-one"))
	token, err := SignToken("maria")
	require.NoError(t, err)

	require.NoError(t, InitTokenSigner("key-two"))
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
