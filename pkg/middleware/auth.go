package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type claimsKey struct{}

// AdminAuth requires a valid "Authorization: Bearer <jwt>" issued by the
// admin login. When required is false the middleware only attaches claims
// for requests that carry a valid token and lets everything else through.
func AdminAuth(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearer(r)
			if token == "" {
				// Browsers cannot set headers on a WebSocket handshake.
				token = r.URL.Query().Get("token")
			}

			if token == "" {
				if required {
					response.Unauthorized(w, "Unauthorized")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				if required {
					response.Unauthorized(w, "Invalid token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// AdminFromCtx returns the claims attached by AdminAuth, if any.
func AdminFromCtx(c context.Context) (*auth.Claims, bool) {
	claims, ok := c.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
