package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
	"github.com/kudzaitsapo/fileflow-web/internal/query"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// errSuperseded is returned for a list fetch that a newer one from the same
// session replaced before it finished.
var errSuperseded = errors.New("superseded by a newer request")

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// pageFor builds the layout data shared by every signed-in page.
func pageFor(r *http.Request, title, section string) *views.Page {
	page := &views.Page{Title: title, Section: section}
	if s := middleware.GetSessionFromContext(r.Context()); s != nil {
		page.User = &views.User{
			Name:    strings.TrimSpace(s.FirstName + " " + s.LastName),
			Email:   s.Email,
			Initial: s.Initial(),
		}
	}
	if store := project.FromContext(r.Context()); store != nil {
		if active, ok := store.Active(); ok {
			page.ActiveProject = active
		}
	}
	return page
}

// renderPage writes a page, falling back to a plain 500 if the template fails.
func renderPage(w http.ResponseWriter, v *views.Renderer, status int, name string, page *views.Page) {
	if err := v.Render(w, status, name, page); err != nil {
		logging.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// renderError shows the error page with the given status.
func renderError(w http.ResponseWriter, r *http.Request, v *views.Renderer, status int, message string) {
	page := pageFor(r, "Error", "")
	page.Data = views.ErrorData{Status: status, Message: message}
	renderPage(w, v, status, "error", page)
}

// endSession answers a backend 401: the stored token is no longer valid, so
// the session is dropped and the user is sent back to the login page. It
// reports whether it handled err.
func endSession(w http.ResponseWriter, r *http.Request, sm *middleware.SessionManager, err error) bool {
	if !fileflow.IsUnauthorized(err) {
		return false
	}
	if s := middleware.GetSessionFromContext(r.Context()); s != nil {
		logging.Info().Str("session", s.ID).Msg("backend rejected session token, signing out")
		sm.DeleteSession(r.Context(), s.ID)
	}
	sm.ClearSessionCookie(w)
	middleware.Unauthorized(w, r)
	return true
}

// backendStatus maps a backend error to the status returned to our client.
func backendStatus(err error) int {
	switch code := fileflow.StatusCode(err); {
	case code == http.StatusNotFound:
		return http.StatusNotFound
	case code >= 400 && code < 500:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// sessionOwner identifies whose fetches compete in the coordinator.
func sessionOwner(r *http.Request) string {
	if s := middleware.GetSessionFromContext(r.Context()); s != nil {
		return s.ID
	}
	return r.RemoteAddr
}

// fetchPage runs a coordinated list fetch. If the requested page lies past
// the end of the list it is clamped to the last page and fetched once more.
// The returned query carries the page state that was actually served.
func fetchPage[T any](ctx context.Context, coord *query.Coordinator, owner string, q query.Query,
	fetch func(context.Context, query.Query) (*fileflow.Page[T], error),
) (*fileflow.Page[T], query.Query, error) {
	page, err := fetchOnce(ctx, coord, owner, q, fetch)
	if err != nil {
		return nil, q, err
	}

	clamped := q.State.Clamp(page.Total())
	if clamped == q.State {
		return page, q, nil
	}

	q = q.WithState(clamped)
	page, err = fetchOnce(ctx, coord, owner, q, fetch)
	if err != nil {
		return nil, q, err
	}
	return page, q, nil
}

func fetchOnce[T any](ctx context.Context, coord *query.Coordinator, owner string, q query.Query,
	fetch func(context.Context, query.Query) (*fileflow.Page[T], error),
) (*fileflow.Page[T], error) {
	ctx, ticket := coord.Begin(ctx, owner, q)
	defer ticket.Done()

	page, err := fetch(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) && !ticket.Current() {
			logging.Debug().Str("query", q.Key()).Msg("discarding superseded list fetch")
			return nil, errSuperseded
		}
		return nil, err
	}
	return page, nil
}
