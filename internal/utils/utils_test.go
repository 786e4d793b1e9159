package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTrimsStrings(t *testing.T) {
	type req struct {
		Name  string
		Tags  []string
		Count int
	}

	r := &req{Name: "  João  ", Tags: []string{" a ", "b"}, Count: 3}
	Sanitize(r)

	assert.Equal(t, "João", r.Name)
	assert.Equal(t, []string{"a", "b"}, r.Tags)
	assert.Equal(t, 3, r.Count)
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("1234")
	require.NoError(t, err)
	require.NotEqual(t, "1234", hash)

	assert.True(t, CheckPassword("1234", hash))
	assert.False(t, CheckPassword("12345", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPasswordSalts(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	// Per-hash salt: two hashes of the same input never collide.
	assert.NotEqual(t, h1, h2)
}
