package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordDeterministic(t *testing.T) {
	salt := "abcdefghijkl"

	h1 := HashPassword("motdepasse", salt)
	h2 := HashPassword("motdepasse", salt)

	require.NotEmpty(t, h1)
	assert.Equal(t, h1, h2)
}

func TestHashPasswordSaltChangesHash(t *testing.T) {
	h1 := HashPassword("motdepasse", "saltsaltsalt")
	h2 := HashPassword("motdepasse", "saltsaltsal2")

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	salt := GenerateSalt()
	hash := HashPassword("S3cret!", salt)

	assert.True(t, VerifyPassword("S3cret!", salt, hash))
	assert.False(t, VerifyPassword("autre", salt, hash))
	assert.False(t, VerifyPassword("S3cret!", GenerateSalt(), hash))
}

func TestVerifyPasswordRejectsInvalidBase64(t *testing.T) {
	assert.False(t, VerifyPassword("x", "saltsaltsalt", "%%%pas-du-base64%%%"))
}
