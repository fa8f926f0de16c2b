package handlers

import (
	"errors"
	"net/http"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
	"github.com/kudzaitsapo/fileflow-web/internal/query"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

// UsersHandler lists the members of the active project
type UsersHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
	views          *views.Renderer
	coordinator    *query.Coordinator
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(cfg *config.Config, sm *middleware.SessionManager, v *views.Renderer, coord *query.Coordinator) *UsersHandler {
	return &UsersHandler{
		config:         cfg,
		sessionManager: sm,
		views:          v,
		coordinator:    coord,
	}
}

// Page renders the project member table.
func (h *UsersHandler) Page(w http.ResponseWriter, r *http.Request) {
	active, ok := activeProject(r)
	if !ok {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	state := pagination.ParseState(r.URL.Query())
	page := pageFor(r, "Users", "users")
	page.Crumbs = []views.Crumb{{Label: active.Name, URL: "/"}, {Label: "Users"}}
	data := views.UsersData{Project: active}

	result, q, err := fetchPage(r.Context(), h.coordinator, sessionOwner(r), query.New(query.Users, active.ID, state), client.ListProjectUsers)
	switch {
	case errors.Is(err, errSuperseded):
		renderError(w, r, h.views, http.StatusConflict, "This list was replaced by a newer request.")
		return
	case endSession(w, r, h.sessionManager, err):
		return
	case err != nil:
		logging.Error().Err(err).Int64("project_id", active.ID).Msg("failed to list project users")
		page.Error = fileflow.Message(err)
		data.Pager = views.NewPager("/users", state, 0, false)
	default:
		data.Users = result.Items
		data.Pager = views.NewPager("/users", q.State, result.Total(), false)
	}

	page.Data = data
	renderPage(w, h.views, http.StatusOK, "users", page)
}
