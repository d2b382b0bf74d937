package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const studentIDKey contextKey = "student_id"

const accessTokenCookie = "access_token"

// AuthService verifies access tokens issued by the hosted auth provider.
// Sign-up and login live with the provider; this service only resolves identity.
type AuthService struct {
	jwtSecret []byte
}

// StudentClaims is the subset of the provider's token claims the backend reads
type StudentClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

// WithStudentID returns a context carrying the resolved student identity
func WithStudentID(ctx context.Context, studentID string) context.Context {
	return context.WithValue(ctx, studentIDKey, studentID)
}

// StudentIDFromContext returns the student identity set by the middleware
func StudentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(studentIDKey).(string)
	return id, ok && id != ""
}

// VerifyAccessToken validates an HS256 token and returns the student id from its subject
func (s *AuthService) VerifyAccessToken(tokenString string) (string, error) {
	claims := &StudentClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("invalid subject: %w", err)
	}
	return claims.Subject, nil
}

// GenerateAccessToken signs a token for studentID; used by tooling and tests
func (s *AuthService) GenerateAccessToken(studentID string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := StudentClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   studentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// GetTokenFromRequest reads a bearer token, falling back to the access token cookie
func (s *AuthService) GetTokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Middleware resolves the student identity or rejects the request
func (s *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.GetTokenFromRequest(r)
		if token == "" {
			writeError(w, ErrNotAuthenticated)
			return
		}

		studentID, err := s.VerifyAccessToken(token)
		if err != nil {
			slog.Warn("Rejected access token", "error", err)
			writeError(w, ErrNotAuthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithStudentID(r.Context(), studentID)))
	})
}
