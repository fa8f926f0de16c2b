package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type contextKey string

const sessionContextKey contextKey = "session"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// RequireAuth is middleware that requires a valid session. API requests get
// a JSON 401; page requests are redirected to the login page with a
// callbackUrl pointing back at the original URL.
func RequireAuth(sm *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sm.GetSessionFromRequest(r)
			if session == nil {
				Unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Unauthorized answers a request that needs a (new) login.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}
	http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
}

// IsAPIRequest reports whether r targets the JSON API rather than a page.
func IsAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// LoginURL returns the login page URL that returns to callback afterwards.
func LoginURL(callback string) string {
	if callback == "" || callback == "/" || !IsLocalPath(callback) {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"callbackUrl": {callback}}.Encode()
}

// IsLocalPath reports whether p is a same-site absolute path, which makes it
// safe to redirect to.
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *Session {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return session
}

// SetSessionInContext adds a session to the context.
// This is primarily for testing - use RequireAuth middleware in production.
func SetSessionInContext(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}
