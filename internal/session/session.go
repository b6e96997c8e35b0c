// Package session carries the authenticated caller through a request.
//
// A Context is a plain value. Services take it as an explicit argument; the
// request context is only used to hand it from the HTTP middleware to the
// handler.
package session

import (
	"context"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
)

// CookieName is the cookie that carries the session token for browsers.
const CookieName = "session"

type Context struct {
	UserID     int64        `json:"user_id"`
	Username   string       `json:"username"`
	FullName   string       `json:"full_name"`
	Level      access.Level `json:"security_level"`
	EmployeeID *int64       `json:"employee_id,omitempty"`
	TokenID    string       `json:"-"`
	ExpiresAt  time.Time    `json:"expires_at"`
}

// Anonymous is the zero session.
var Anonymous = Context{}

func (c Context) Authenticated() bool {
	return c.UserID > 0 && c.Level.Valid()
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns Anonymous when no session was attached.
func FromContext(ctx context.Context) Context {
	if ctx == nil {
		return Anonymous
	}
	if s, ok := ctx.Value(ctxKey{}).(Context); ok {
		return s
	}
	return Anonymous
}

// Authorize checks op against the policy for this caller. Anonymous callers
// get internal.ErrLoginRequired; denied callers get internal.ErrNotFound.
func (c Context) Authorize(policy access.Checker, op access.Operation) error {
	if !c.Authenticated() {
		return internal.ErrLoginRequired
	}
	if !policy.Check(c.Level, op) {
		return internal.ErrNotFound
	}
	return nil
}
