// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
)

// SessionUser is what we cache per request and inject into r.Context().
// It is a snapshot, not the authoritative user record; handlers that
// mutate data re-check authorization against the store.
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser returns a request carrying u as the current user.
// Test helper; production requests get their user from LoadSessionUser.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
