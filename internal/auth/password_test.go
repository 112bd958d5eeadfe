package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamboard/api/internal/auth"
)

func TestGeneratePassword(t *testing.T) {
	t.Run("Default length is enforced as a minimum", func(t *testing.T) {
		password, err := auth.GeneratePassword(4)
		require.NoError(t, err)
		assert.Len(t, password, auth.GeneratedPasswordLength)
	})

	t.Run("Longer passwords are honored", func(t *testing.T) {
		password, err := auth.GeneratePassword(32)
		require.NoError(t, err)
		assert.Len(t, password, 32)
	})

	t.Run("Every character class is represented", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			password, err := auth.GeneratePassword(auth.GeneratedPasswordLength)
			require.NoError(t, err)

			assert.True(t, strings.ContainsAny(password, "abcdefghijkmnopqrstuvwxyz"), password)
			assert.True(t, strings.ContainsAny(password, "ABCDEFGHJKLMNPQRSTUVWXYZ"), password)
			assert.True(t, strings.ContainsAny(password, "23456789"), password)
			assert.True(t, strings.ContainsAny(password, "!@#$%^&*-_+="), password)
		}
	})

	t.Run("Consecutive passwords differ", func(t *testing.T) {
		a, err := auth.GeneratePassword(auth.GeneratedPasswordLength)
		require.NoError(t, err)

		b, err := auth.GeneratePassword(auth.GeneratedPasswordLength)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})
}
