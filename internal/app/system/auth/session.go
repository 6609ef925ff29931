// internal/app/system/auth/session.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys.
const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// UserFetcher loads fresh user data for a session's user id. Returning
// nil means the user no longer exists or may not sign in (disabled),
// and the request proceeds unauthenticated.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager verifies session cookies minted by the platform's
// identity service (this service issues none itself) and loads the
// current user into request context.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
}

// NewSessionManager builds a SessionManager for the given cookie key,
// name, and domain. Secure controls the cookie Secure flag and
// SameSite mode. An empty key is rejected in secure mode; in dev mode
// a random key is generated so sessions reset on restart.
func NewSessionManager(sessionKey, sessionName, sessionDomain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		if secure {
			return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
		}
		sessionKey = string(securecookie.GenerateRandomKey(32))
		logger.Warn("session key not configured; generated a random dev key (sessions reset on restart)")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   sessionDomain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}

	// SameSite handling: in prod with Secure cookies we use None so the
	// cookie survives cross-site API calls. In dev, Lax is fine.
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", sessionDomain),
		zap.String("cookie", sessionName))

	return &SessionManager{store: store, name: sessionName, log: logger}, nil
}

// SetUserFetcher wires the fetcher LoadSessionUser uses to refresh user
// data per request, so role changes and disabled accounts take effect
// immediately instead of at next sign-in.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// GetSession returns the request's session, creating a new one if the
// cookie is absent or fails verification.
func (sm *SessionManager) GetSession(r *http.Request) *sessions.Session {
	sess, _ := sm.store.Get(r, sm.name)
	return sess
}

// LoadSessionUser injects the user into context if they are signed in.
// With a fetcher configured, the user snapshot comes fresh from the
// store on every request; a fetch miss leaves the request anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.GetSession(r)

		isAuth, _ := sess.Values[isAuthKey].(bool)
		if !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		userID, _ := sess.Values[userIDKey].(string)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		u := sm.fetcher.FetchUser(r.Context(), userID)
		if u == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). API callers get a 401 JSON envelope; there is no
// login page to redirect to in this service.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		writeDenied(w, http.StatusUnauthorized, "authentication required")
	})
}

// RequireRole ensures the current user holds one of the allowed roles.
// Unauthenticated requests get 401, wrong-role requests get 403.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeDenied(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeDenied emits the same envelope shape the respond package uses.
func writeDenied(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg,
	})
}
