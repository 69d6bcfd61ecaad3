package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/jwt"
)

type contextKey string

// ClaimsKey is the request context key holding the verified JWT claims.
const ClaimsKey contextKey = "claims"

// ClaimsFromContext extracts the verified claims set by Auth.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return claims, ok
}

// Auth verifies the Bearer token and stores the claims in the request context.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
