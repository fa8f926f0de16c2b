package middleware

import (
	"net/http"

	"github.com/kudzaitsapo/fileflow-web/internal/project"
)

// WithActiveProject builds the request's active-project store from its
// cookie and adds it to the context.
func WithActiveProject(sm *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := project.NewStore(project.NewCookiePersister(w, r, sm.IsSecure(r)))
			next.ServeHTTP(w, r.WithContext(project.WithStore(r.Context(), store)))
		})
	}
}
