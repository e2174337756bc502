package http

import (
	"context"
	"net/http"
	"strings"

	"keyportal-backend/internal/security"
)

type contextKey string

const operatorKey contextKey = "operator"

// AuthMiddleware validates the bearer token and stashes the operator
// claims on the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token", Kind: "unauthorized"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Kind: "unauthorized"})
				return
			}
			ctx := context.WithValue(r.Context(), operatorKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorFromContext returns the authenticated operator claims, nil
// outside the auth middleware.
func OperatorFromContext(ctx context.Context) *security.OperatorClaims {
	claims, _ := ctx.Value(operatorKey).(*security.OperatorClaims)
	return claims
}
