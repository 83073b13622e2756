package services

import (
	"testing"
	"time"

	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) TokenService {
	t.Helper()
	service, err := NewTokenService(
		15*time.Minute,
		24*time.Hour,
		"kusanagi",
		"kusanagi-api",
		false,
		"", "",
		"test-secret-key-with-enough-entropy",
	)
	require.NoError(t, err)
	return service
}

func TestNewTokenService(t *testing.T) {
	t.Run("SymmetricKey", func(t *testing.T) {
		service := newTestTokenService(t)
		assert.NotNil(t, service)
	})

	t.Run("MissingSecretKey", func(t *testing.T) {
		_, err := NewTokenService(15*time.Minute, 24*time.Hour, "kusanagi", "kusanagi-api", false, "", "", "")
		assert.Error(t, err)
	})

	t.Run("RSAWithoutKeys", func(t *testing.T) {
		_, err := NewTokenService(15*time.Minute, 24*time.Hour, "kusanagi", "kusanagi-api", true, "", "", "")
		assert.Error(t, err)
	})
}

func TestGenerateTokens(t *testing.T) {
	service := newTestTokenService(t)

	t.Run("EmployeeRole", func(t *testing.T) {
		access, refresh, err := service.GenerateTokens("E-1001", utils.RoleEmployee)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)
	})

	t.Run("AdminRole", func(t *testing.T) {
		access, _, err := service.GenerateTokens("A-1", utils.RoleAdmin)
		require.NoError(t, err)

		claims, err := service.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, utils.RoleAdmin, claims.Role)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		_, _, err := service.GenerateTokens("E-1001", "superuser")
		assert.Error(t, err)
	})
}

func TestValidateToken(t *testing.T) {
	service := newTestTokenService(t)

	t.Run("RoundTrip", func(t *testing.T) {
		access, refresh, err := service.GenerateTokens("E-1001", utils.RoleEmployee)
		require.NoError(t, err)

		claims, err := service.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, "E-1001", claims.EmpID)
		assert.Equal(t, utils.RoleEmployee, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))

		refreshClaims, err := service.ValidateToken(refresh)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongKey", func(t *testing.T) {
		other, err := NewTokenService(15*time.Minute, 24*time.Hour, "kusanagi", "kusanagi-api", false, "", "", "a-different-secret-key")
		require.NoError(t, err)

		access, _, err := other.GenerateTokens("E-1001", utils.RoleEmployee)
		require.NoError(t, err)

		_, err = service.ValidateToken(access)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expiring, err := NewTokenService(-1*time.Minute, 24*time.Hour, "kusanagi", "kusanagi-api", false, "", "", "test-secret-key-with-enough-entropy")
		require.NoError(t, err)

		access, _, err := expiring.GenerateTokens("E-1001", utils.RoleEmployee)
		require.NoError(t, err)

		_, err = expiring.ValidateToken(access)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRefreshToken(t *testing.T) {
	service := newTestTokenService(t)

	t.Run("Flow", func(t *testing.T) {
		_, refresh, err := service.GenerateTokens("E-1001", utils.RoleEmployee)
		require.NoError(t, err)

		newAccess, newRefresh, err := service.RefreshToken(refresh)
		require.NoError(t, err)

		claims, err := service.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, "E-1001", claims.EmpID)
		assert.Equal(t, utils.RoleEmployee, claims.Role)

		refreshClaims, err := service.ValidateToken(newRefresh)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		access, _, err := service.GenerateTokens("E-1001", utils.RoleEmployee)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(access)
		assert.Error(t, err)
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		_, _, err := service.RefreshToken("bogus")
		assert.Error(t, err)
	})
}
