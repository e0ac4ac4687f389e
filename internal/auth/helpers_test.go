package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")

	token, err := GenerateJWT("Ada", "ada@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, RoleAdmin, claims.Role)
}

func TestParseJWT_Rejects(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	expired, err := GenerateJWT("Ada", "ada@example.com", RoleStaff, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired)
	require.Error(t, err)

	_, err = ParseJWT("not-a-token")
	require.Error(t, err)

	token, err := GenerateJWT("Ada", "ada@example.com", RoleStaff, time.Hour)
	require.NoError(t, err)
	t.Setenv("JWT_KEY", "other-secret")
	_, err = ParseJWT(token)
	require.Error(t, err)

	t.Setenv("JWT_KEY", "")
	_, err = GenerateJWT("Ada", "ada@example.com", RoleStaff, time.Hour)
	require.ErrorIs(t, err, ErrMissingKey)
}
