package httpx

import (
	"net/http"
	"slices"
)

// RequireRole rejects requests whose attached role set lacks the role.
// Must be chained after AuthnMiddleware; an unauthenticated request carries
// no roles and is always rejected.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(RolesFromCtx(r.Context()), role) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
