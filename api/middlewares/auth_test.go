package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/middlewares"
	"github.com/Adedunmol/jakpat-univ/api/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(service tokens.TokenService, role string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middlewares.ClaimsFromContext(r.Context())
		w.Header().Set("X-Email", claims.Email)
		w.WriteHeader(http.StatusOK)
	})
	return middlewares.AuthMiddleware(service)(middlewares.RequireRole(role)(ok))
}

func serve(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	service := tokens.NewTokenService("test-secret", time.Hour)
	handler := protected(service, tokens.RoleAdmin)

	adminToken, _, err := service.GenerateToken("admin@jakpat.net", tokens.RoleAdmin)
	require.NoError(t, err)
	viewerToken, _, err := service.GenerateToken("viewer@jakpat.net", "viewer")
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(handler, "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(handler, "Token "+adminToken).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(handler, "Bearer garbage").Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(handler, "Bearer "+viewerToken).Code)
	})

	t.Run("admin", func(t *testing.T) {
		rec := serve(handler, "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin@jakpat.net", rec.Header().Get("X-Email"))
	})
}
