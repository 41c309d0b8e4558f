package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/carnotes-app/carnotes/pkg/jwtx"
	"github.com/carnotes-app/carnotes/pkg/slogx"
)

// TokenVerifier validates an access token and returns its claims.
// *jwtx.Codec satisfies this.
type TokenVerifier interface {
	Verify(token string, kind jwtx.Kind) (jwtx.Claims, error)
}

// AuthnMiddleware is the per-request authentication gate. A missing or
// malformed Authorization header yields 401; a present bearer token that
// fails verification yields 403. Expired, tampered and malformed tokens are
// indistinguishable to the caller so responses cannot be used as an oracle
// on token validity.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw, jwtx.KindAccess)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			ctx := contextWithAuth(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRoles, c.Roles)
	return ctx
}
