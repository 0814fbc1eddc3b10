package middleware

import "net/http"

// AdminTokenValidator checks admin tokens minted by the PIN exchange.
type AdminTokenValidator interface {
	ValidateToken(token string) error
}

// AdminAuth guards the admin-only routes with a Bearer admin token.
func AdminAuth(validator AdminTokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}
			if err := validator.ValidateToken(raw); err != nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
