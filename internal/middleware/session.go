package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "sessionId"

// DefaultSessionMaxAge is how long an issued session cookie lives.
const DefaultSessionMaxAge = 7 * 24 * time.Hour

// MaxSessionIDLength matches the width of the session_id columns. Longer
// cookies are treated as absent.
const MaxSessionIDLength = 255

type contextKey string

const (
	sessionIDKey     contextKey = "sessionID"
	sessionIssuerKey contextKey = "sessionIssuer"
)

// sessionIssuer mints at most one token per request, on first use.
type sessionIssuer struct {
	once  sync.Once
	id    string
	issue func() string
}

func (si *sessionIssuer) get() string {
	si.once.Do(func() { si.id = si.issue() })
	return si.id
}

// SessionOptions configures how new session cookies are issued.
type SessionOptions struct {
	MaxAge  time.Duration
	Secure  bool
	// OnIssue, if set, is called each time a new session token is minted.
	OnIssue func()
}

// ResolveSession returns middleware that reads the session token from the
// sessionId cookie. When the cookie is missing nothing is written yet: the
// handler calls EnsureSession once the request is known to be valid, which
// sets the cookie and returns the new token for use in the same request.
func ResolveSession(opts SessionOptions) func(http.Handler) http.Handler {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultSessionMaxAge
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessionID, ok := sessionFromCookie(r); ok {
				next.ServeHTTP(w, r.WithContext(ContextWithSessionID(r.Context(), sessionID)))
				return
			}

			issuer := &sessionIssuer{issue: func() string {
				sessionID := uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(opts.MaxAge / time.Second),
					Expires:  time.Now().Add(opts.MaxAge),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				if opts.OnIssue != nil {
					opts.OnIssue()
				}
				return sessionID
			}}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIssuerKey, issuer)))
		})
	}
}

// EnsureSession returns the session token for the request, issuing a new
// cookie first when ResolveSession found none. It must be called before the
// response header is written.
func EnsureSession(ctx context.Context) (string, bool) {
	if id, ok := SessionIDFromContext(ctx); ok {
		return id, true
	}
	if issuer, ok := ctx.Value(sessionIssuerKey).(*sessionIssuer); ok {
		return issuer.get(), true
	}
	return "", false
}

// OptionalSession returns middleware that puts the session token in the
// request context when the cookie is present and passes the request through
// untouched otherwise.
func OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID, ok := sessionFromCookie(r); ok {
			r = r.WithContext(ContextWithSessionID(r.Context(), sessionID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession returns middleware that rejects requests without a session
// cookie with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := sessionFromCookie(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSessionID(r.Context(), sessionID)))
	})
}

// SessionIDFromContext extracts the session token from the request context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// ContextWithSessionID returns a copy of ctx carrying sessionID.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func sessionFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" || len(cookie.Value) > MaxSessionIDLength {
		return "", false
	}
	return cookie.Value, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
