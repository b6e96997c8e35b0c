package middleware

import (
	"net/http"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/session"
	"github.com/frahmantamala/payraise-portal/internal/transport"
	"github.com/frahmantamala/payraise-portal/pkg/logger"
)

// RequireOperation guards a route with the access policy. Anonymous callers
// are sent to log in; a denied caller gets the router's own not-found page.
func RequireOperation(policy access.Checker, op access.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := session.FromContext(r.Context())
			if !caller.Authenticated() {
				transport.RedirectToLogin(w, r)
				return
			}

			if !policy.Check(caller.Level, op) {
				logger.From(r.Context()).Info("operation denied",
					"user_id", caller.UserID,
					"level", caller.Level.String(),
					"operation", op)
				transport.NotFound(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated() {
			transport.RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
