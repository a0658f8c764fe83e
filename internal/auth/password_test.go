package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("password123")
	require.NoError(t, err)
	second, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, VerifyPassword("password123", first))
	assert.NoError(t, VerifyPassword("password123", second))
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	digest, err := HashPassword("password123")
	require.NoError(t, err)

	err = VerifyPassword("wrong-password", digest)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyPassword_CorruptDigest(t *testing.T) {
	for _, digest := range []string{"", "not-a-bcrypt-hash", "$2a$"} {
		err := VerifyPassword("password123", digest)
		assert.ErrorIs(t, err, ErrCorruptCredential, "digest %q", digest)
	}
}
