package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/storesync/internal/infrastructure/auth"
	"github.com/erp/storesync/internal/infrastructure/config"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/interfaces/http/dto"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func jwtRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(DefaultJWTConfig(svc, nil)))
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "up") })
	router.GET("/test", func(c *gin.Context) {
		tenantID, ok := TenantID(c)
		require.True(t, ok)
		userID, ok := UserID(c)
		require.True(t, ok)
		assert.NotNil(t, GetJWTClaims(c))
		assert.NotNil(t, logger.FromContext(c.Request.Context()))
		c.JSON(http.StatusOK, gin.H{"tenant": tenantID.String(), "user": userID.String()})
	})
	return router
}

func authErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	tenantID, userID := uuid.New(), uuid.New()
	token, err := svc.GenerateToken(tenantID, userID, "ops", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	jwtRouter(t, svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, tenantID.String(), body["tenant"])
	assert.Equal(t, userID.String(), body["user"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService()
	expired, err := svc.GenerateToken(uuid.New(), uuid.New(), "ops", -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "test-issuer"}).
		GenerateToken(uuid.New(), uuid.New(), "ops", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", BearerPrefix, dto.ErrCodeUnauthorized},
		{"garbage", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"wrong secret", BearerPrefix + foreign, dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + expired, dto.ErrCodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			jwtRouter(t, svc).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, authErrorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	w := httptest.NewRecorder()
	jwtRouter(t, newTestJWTService()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantID_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := TenantID(c)
	assert.False(t, ok)
	_, ok = UserID(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))
}
