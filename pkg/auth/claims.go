package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/skburgers/backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Role     enums.ActorRole
	DriverID *uuid.UUID
	// JTI doubles as the Redis session key; blank means mint a fresh one.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to staff screens and drivers.
type AccessTokenClaims struct {
	Role     enums.ActorRole `json:"role"`
	DriverID *uuid.UUID      `json:"driver_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionID returns the jti used to look up the Redis-backed session.
func (c *AccessTokenClaims) SessionID() string {
	return c.ID
}
