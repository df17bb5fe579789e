package types

import "github.com/google/uuid"

// TokenClaims represents the claims carried by a JWT access token.
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}
