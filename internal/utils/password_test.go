package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestCheckPasswordRejectsPlaintextStore(t *testing.T) {
	// A plaintext row never passes the bcrypt check; the login flow handles
	// the legacy fallback itself.
	assert.False(t, CheckPassword("hunter2", "hunter2"))
}
