package internal

import (
	"context"
	"time"
)

// Session is the request-scoped identity of an authenticated user. It is
// rebuilt on every request from the session token and the access-control
// store; it is never persisted.
type Session struct {
	UserCode       string `json:"user_code"`
	UserName       string `json:"user_name"`
	EffectiveGroup string `json:"effective_group,omitempty"`
	LoggedIn       bool   `json:"logged_in"`
}

type ctxKey string

const ContextSessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(ContextSessionKey).(*Session)
	return sess, ok && sess != nil
}

func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, sess)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative. Every store call is bounded by one of these.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
