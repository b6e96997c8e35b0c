package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/payraise-portal/internal/session"
	"github.com/frahmantamala/payraise-portal/internal/transport"
	"github.com/frahmantamala/payraise-portal/pkg/logger"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Context, error)
}

// Session attaches the caller's session to the request. The bearer token wins
// over the cookie; a missing or bad token leaves the request anonymous.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.BearerToken(r)
			if token == "" {
				if c, err := r.Cookie(session.CookieName); err == nil {
					token = c.Value
				}
			}

			caller := session.Anonymous
			if token != "" {
				resolved, err := resolver.Resolve(r.Context(), token)
				if err != nil {
					logger.From(r.Context()).Debug("session token rejected", "error", err)
				} else {
					caller = resolved
				}
			}

			ctx := session.NewContext(r.Context(), caller)
			if caller.Authenticated() {
				ctx = logger.With(ctx, "user_id", caller.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
