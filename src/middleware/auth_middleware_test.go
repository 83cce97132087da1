package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var gotUserID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.Context().Value("user_id").(int64)
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTAuthMiddleware(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret", jwt.MapClaims{
			"user_id": 1,
			"email":   "user@example.com",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "test-secret", jwt.MapClaims{
			"user_id": 1,
			"email":   "user@example.com",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches handler with user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "test-secret", jwt.MapClaims{
			"user_id": 42,
			"email":   "user@example.com",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), gotUserID)
	})
}

func TestDemoModeMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("disabled passes writes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		DemoModeMiddleware(false)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("enabled blocks writes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		DemoModeMiddleware(true)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/1", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("enabled allows reads and login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		DemoModeMiddleware(true)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		DemoModeMiddleware(true)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
