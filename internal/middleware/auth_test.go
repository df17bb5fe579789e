package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/recipehub/backend/internal/types"
)

type stubAuthenticator struct {
	claims    *types.TokenClaims
	principal *types.Principal
}

func (s *stubAuthenticator) ValidateToken(token string) (*types.TokenClaims, error) {
	if s.claims == nil {
		return nil, errors.New("invalid token")
	}
	return s.claims, nil
}

func (s *stubAuthenticator) GetPrincipal(userID uuid.UUID) (*types.Principal, error) {
	if s.principal == nil {
		return nil, types.NewNotFoundError("user")
	}
	return s.principal, nil
}

func newAuthTestRouter(auth Authenticator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var mw gin.HandlerFunc
	if optional {
		mw = OptionalAuth(auth)
	} else {
		mw = AuthMiddleware(auth)
	}

	engine.GET("/probe", mw, func(c *gin.Context) {
		if principal, ok := CurrentPrincipal(c); ok {
			c.JSON(http.StatusOK, gin.H{"username": principal.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": ""})
	})
	return engine
}

func TestAuthMiddlewareRejections(t *testing.T) {
	engine := newAuthTestRouter(&stubAuthenticator{}, false)

	// Missing header.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed header.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Invalid token.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	userID := uuid.New()
	auth := &stubAuthenticator{
		claims: &types.TokenClaims{UserID: userID, Username: "ghost"},
	}
	engine := newAuthTestRouter(auth, false)

	// A valid token whose user no longer exists is rejected.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer anything")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsPrincipal(t *testing.T) {
	userID := uuid.New()
	auth := &stubAuthenticator{
		claims:    &types.TokenClaims{UserID: userID, Username: "alice"},
		principal: &types.Principal{ID: userID, Username: "alice", Role: types.RoleMember},
	}
	engine := newAuthTestRouter(auth, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer anything")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	engine := newAuthTestRouter(&stubAuthenticator{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":""`)
}
