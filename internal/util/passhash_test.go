package util

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		hash, err := HashSecret("S3cure-Pass!")
		require.NoError(t, err)
		require.True(t, VerifySecret("S3cure-Pass!", hash))
		require.False(t, VerifySecret("wrong-pass", hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := HashSecret("same-input")
		require.NoError(t, err)
		second, err := HashSecret("same-input")
		require.NoError(t, err)
		require.NotEqual(t, first, second)
		require.True(t, VerifySecret("same-input", first))
		require.True(t, VerifySecret("same-input", second))
	})

	t.Run("accepts legacy bcrypt hashes", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
		require.NoError(t, err)
		require.True(t, VerifySecret("legacy-pass", string(hash)))
		require.False(t, VerifySecret("nope", string(hash)))
	})

	t.Run("rejects unrecognized formats", func(t *testing.T) {
		require.False(t, VerifySecret("anything", "plaintext-password"))
		require.False(t, VerifySecret("anything", "$argon2id$garbage"))
	})
}

func TestIsHashed(t *testing.T) {
	t.Parallel()

	require.True(t, IsHashed("$argon2id$v=19$m=65536,t=1,p=4$abc$def"))
	require.True(t, IsHashed("$2b$12$abcdefghijklmnopqrstuv"))
	require.False(t, IsHashed("hunter2"))
	require.False(t, IsHashed(""))
}
