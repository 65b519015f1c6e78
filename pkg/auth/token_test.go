package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "skburgers-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		Role: enums.ActorRoleAdmin,
		JTI:  "session-123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, enums.ActorRoleAdmin, claims.Role)
	assert.Nil(t, claims.DriverID)
	assert.Equal(t, "session-123", claims.SessionID())
	assert.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestMintAccessTokenDriverRequiresDriverID(t *testing.T) {
	cfg := testJWTConfig()

	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Role: enums.ActorRoleDriver})
	require.Error(t, err)

	driverID := uuid.New()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		Role:     enums.ActorRoleDriver,
		DriverID: &driverID,
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.NotNil(t, claims.DriverID)
	assert.Equal(t, driverID, *claims.DriverID)
	assert.NotEmpty(t, claims.SessionID())
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{Role: enums.ActorRole("cook")})
	require.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Role: enums.ActorRoleKitchen})
	require.NoError(t, err)

	other := cfg
	other.Secret = "another-secret"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{Role: enums.ActorRoleAdmin})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
}
