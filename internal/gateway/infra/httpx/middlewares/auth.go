// Package middlewares carries the gateway's HTTP middleware.
package middlewares

import (
	"context"
	"net/http"
	"strings"

	"ecommerce-platform/internal/pkg/auth"
)

type contextKey string

const claimsKey contextKey = "auth.claims"

// Authenticate extracts a bearer token, verifies it, and stores the
// claims in the request context. Requests without a token pass through
// anonymously; per-operation checks decide what anonymous callers may do.
func Authenticate(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if claims, err := verifier.Verify(token); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims stores verified claims on a context.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the verified claims, or nil for anonymous callers.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
