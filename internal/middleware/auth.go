package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"breakerbox/internal/auth"

	"go.uber.org/zap"
)

// TokenVerifier is satisfied by *auth.JWTManager
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logr     *zap.Logger
}

type contextKey string

const ContextClaimsKey contextKey = "claims"

// NewAuthMiddleware creates a reusable JWT auth middleware instance
func NewAuthMiddleware(verifier TokenVerifier, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logr: logr}
}

// ClaimsFromContext returns the verified claims attached by JWTAuth
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ContextClaimsKey).(*auth.Claims)
	return c, ok
}

// JWTAuth validates the bearer token and attaches its claims to the request context
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			deny(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			deny(w, http.StatusUnauthorized, "invalid token format")
			return
		}

		claims, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("token verification failed", zap.Error(err))
			deny(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims.Kind != auth.AccessToken {
			deny(w, http.StatusUnauthorized, "access token required")
			return
		}

		ctx := context.WithValue(r.Context(), ContextClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireEditor rejects requests whose token lacks an editing role. Use after JWTAuth.
func (m *AuthMiddleware) RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			deny(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		if !claims.CanEdit() {
			m.logr.Warn("edit denied", zap.String("subject", claims.Subject), zap.Strings("roles", claims.Roles))
			deny(w, http.StatusForbidden, "editor role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
