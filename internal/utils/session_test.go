package utils

import (
	"testing"

	"tourism_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	user := &domain.User{ID: 42, Username: "alice", Role: domain.RoleCustomer}

	token, sessionID, err := GenerateSessionToken(user, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessionID)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(domain.RoleCustomer), claims.Role)
	assert.Equal(t, sessionID, claims.ID)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	user := &domain.User{ID: 1, Username: "alice", Role: domain.RoleCustomer}

	token, _, err := GenerateSessionToken(user, "secret")
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestSessionIDsAreUnique(t *testing.T) {
	user := &domain.User{ID: 1, Username: "alice", Role: domain.RoleCustomer}

	_, first, err := GenerateSessionToken(user, "secret")
	require.NoError(t, err)
	_, second, err := GenerateSessionToken(user, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
