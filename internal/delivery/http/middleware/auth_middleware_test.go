package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	"storefront/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tokenSvc, err := auth.NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	authMiddleware := NewAuthMiddleware(tokenSvc)
	userID := uuid.New()
	accessToken, _, err := tokenSvc.GenerateTokens(userID, []string{"customer"})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = authMiddleware.Authenticate(func(c echo.Context) error {
		gotID, ok := UserID(c)
		assert.True(t, ok)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, []string{"customer"}, c.Get(ContextKeyRoles))

		return c.NoContent(http.StatusOK)
	})(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokenSvc, err := auth.NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	authMiddleware := NewAuthMiddleware(tokenSvc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = authMiddleware.Authenticate(okHandler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	tokenSvc, err := auth.NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	authMiddleware := NewAuthMiddleware(tokenSvc)

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "some-token"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := authMiddleware.Authenticate(okHandler)(c)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tokenSvc, err := auth.NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	authMiddleware := NewAuthMiddleware(tokenSvc)

	tests := []struct {
		name     string
		roles    []string
		expected int
	}{
		{"admin allowed", []string{"customer", "admin"}, http.StatusOK},
		{"customer rejected", []string{"customer"}, http.StatusForbidden},
		{"no roles rejected", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessToken, _, err := tokenSvc.GenerateTokens(uuid.New(), tt.roles)
			require.NoError(t, err)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
			req.Header.Set("Authorization", "Bearer "+accessToken)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			chained := authMiddleware.Authenticate(authMiddleware.RequireRole("admin")(okHandler))
			err = chained(c)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
