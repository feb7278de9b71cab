package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type fakeValidator struct {
	claims *models.JWTClaims
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error) {
	if f.claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	return f.claims, nil
}

func runJWT(t *testing.T, validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	JWT(validator)(c)
	return rec, c
}

func TestJWTMissingHeader(t *testing.T) {
	rec, c := runJWT(t, &fakeValidator{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.IsAborted())
}

func TestJWTMalformedHeader(t *testing.T) {
	rec, _ := runJWT(t, &fakeValidator{}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	rec, _ := runJWT(t, &fakeValidator{}, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTValidTokenSetsClaims(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleTeacher}
	_, c := runJWT(t, &fakeValidator{claims: claims}, "Bearer good-token")
	require.False(t, c.IsAborted())
	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	assert.Equal(t, claims, value)
}
