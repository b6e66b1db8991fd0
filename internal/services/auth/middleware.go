package auth

import (
	"context"
	"net/http"
	"strings"

	"restaurant-backend/internal/httpx"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
	requestIDKey
)

// WithUser attaches the authenticated user to the context
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// TokenFromContext returns the session token the request authenticated with
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// RequestIDFromContext returns the request id assigned by the middleware
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestID assigns a request id to every request
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), requestIDKey, logger.GenerateRequestID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticator resolves the bearer token once per request and injects the
// user into the context. Requests without a valid token are rejected.
func (s *Service) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := RequestIDFromContext(r.Context())

		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Error(w, http.StatusUnauthorized, "Authorization header required", requestID)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := s.Authenticate(r.Context(), token)
		if err != nil {
			s.logger.Error("auth_failed", requestID, "Token resolution failed", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}
		if user == nil {
			httpx.Error(w, http.StatusUnauthorized, "Invalid or expired token", requestID)
			return
		}

		ctx := WithUser(r.Context(), user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a route to the named roles
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := RequestIDFromContext(r.Context())

			user := UserFromContext(r.Context())
			if user == nil {
				httpx.Error(w, http.StatusUnauthorized, "Authentication required", requestID)
				return
			}
			if !allowed[user.RoleName] {
				httpx.Error(w, http.StatusForbidden, "Insufficient permissions", requestID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
