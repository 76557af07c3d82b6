package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	t.Run("verifies a secret against its own hash", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		require.True(t, hasher.Verify("correct horse battery staple", hash))
	})

	t.Run("same secret never hashes to the same string twice", func(t *testing.T) {
		first, err := hasher.Hash("pw1")
		require.NoError(t, err)
		second, err := hasher.Hash("pw1")
		require.NoError(t, err)

		require.NotEqual(t, first, second)
		require.True(t, hasher.Verify("pw1", first))
		require.True(t, hasher.Verify("pw1", second))
	})

	t.Run("rejects a different secret", func(t *testing.T) {
		hash, err := hasher.Hash("pw1")
		require.NoError(t, err)

		require.False(t, hasher.Verify("pw2", hash))
	})

	t.Run("empty secret is hashed like any other string", func(t *testing.T) {
		hash, err := hasher.Hash("")
		require.NoError(t, err)

		require.True(t, hasher.Verify("", hash))
		require.False(t, hasher.Verify("not empty", hash))
	})

	t.Run("malformed stored hash is a plain mismatch", func(t *testing.T) {
		require.False(t, hasher.Verify("pw1", "not-a-bcrypt-hash"))
		require.False(t, hasher.Verify("pw1", ""))
	})
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	t.Parallel()

	require.Equal(t, defaultBcryptCost, NewPasswordHasher(0).cost)
	require.Equal(t, defaultBcryptCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	require.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}
