package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/backend/internal/types"
)

// PrincipalKey is the gin context key the auth middleware stores the
// resolved identity under.
const PrincipalKey = "principal"

// Authenticator validates tokens and resolves the current identity.
type Authenticator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GetPrincipal(userID uuid.UUID) (*types.Principal, error)
}

// AuthMiddleware rejects requests without a valid bearer token. The
// principal's role is loaded from the store on every request so role
// changes take effect immediately.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := resolvePrincipal(c, auth)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves the principal when a valid token is present but
// lets anonymous requests through. Used on the public catalog routes
// where a viewer's own pending recipes are visible to them.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := resolvePrincipal(c, auth); ok {
			c.Set(PrincipalKey, principal)
		}
		c.Next()
	}
}

func resolvePrincipal(c *gin.Context, auth Authenticator) (types.Principal, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return types.Principal{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return types.Principal{}, false
	}

	claims, err := auth.ValidateToken(parts[1])
	if err != nil {
		return types.Principal{}, false
	}

	principal, err := auth.GetPrincipal(claims.UserID)
	if err != nil {
		return types.Principal{}, false
	}
	return *principal, true
}

// CurrentPrincipal returns the identity stored by the auth middleware.
func CurrentPrincipal(c *gin.Context) (types.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return types.Principal{}, false
	}
	principal, ok := value.(types.Principal)
	return principal, ok
}
