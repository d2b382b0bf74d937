package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestVerifyAccessToken(t *testing.T) {
	auth := NewAuthService(testSecret)

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(testStudentID, time.Hour)
		require.NoError(t, err)

		id, err := auth.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, testStudentID, id)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(testStudentID, -time.Minute)
		require.NoError(t, err)

		_, err = auth.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewAuthService("other").GenerateAccessToken(testStudentID, time.Hour)
		require.NoError(t, err)

		_, err = auth.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		token, err := auth.GenerateAccessToken("admin", time.Hour)
		require.NoError(t, err)

		_, err = auth.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := StudentClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: testStudentID}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = auth.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("other signing method", func(t *testing.T) {
		claims := StudentClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testStudentID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = auth.VerifyAccessToken(token)
		assert.Error(t, err)
	})
}

func TestGetTokenFromRequest(t *testing.T) {
	auth := NewAuthService(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, auth.GetTokenFromRequest(req))

	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", auth.GetTokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", auth.GetTokenFromRequest(req))
}

func TestMiddleware(t *testing.T) {
	auth := NewAuthService(testSecret)
	var seen string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = StudentIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"not authenticated"}`, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(testStudentID, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, testStudentID, seen)
	})
}
