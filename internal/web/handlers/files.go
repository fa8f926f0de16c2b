package handlers

import (
	"errors"
	"net/http"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
	"github.com/kudzaitsapo/fileflow-web/internal/query"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

// FilesHandler lists the files of the active project
type FilesHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
	views          *views.Renderer
	coordinator    *query.Coordinator
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(cfg *config.Config, sm *middleware.SessionManager, v *views.Renderer, coord *query.Coordinator) *FilesHandler {
	return &FilesHandler{
		config:         cfg,
		sessionManager: sm,
		views:          v,
		coordinator:    coord,
	}
}

// Page renders the file table. Without an active project the user is sent
// to the project picker.
func (h *FilesHandler) Page(w http.ResponseWriter, r *http.Request) {
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
	page := pageFor(r, active.Name, "files")
	page.Crumbs = []views.Crumb{{Label: "Projects", URL: "/projects"}, {Label: active.Name}}
	data := views.FilesData{Project: active}

	result, q, err := fetchPage(r.Context(), h.coordinator, sessionOwner(r), query.New(query.Files, active.ID, state), client.ListFiles)
	switch {
	case errors.Is(err, errSuperseded):
		renderError(w, r, h.views, http.StatusConflict, "This list was replaced by a newer request.")
		return
	case endSession(w, r, h.sessionManager, err):
		return
	case err != nil:
		logging.Error().Err(err).Int64("project_id", active.ID).Msg("failed to list files")
		page.Error = fileflow.Message(err)
		data.Pager = views.NewPager("/", state, 0, false)
	default:
		data.Files = result.Items
		data.Pager = views.NewPager("/", q.State, result.Total(), false)
	}

	page.Data = data
	renderPage(w, h.views, http.StatusOK, "files", page)
}

// FilesResponse is the JSON form of one page of files.
type FilesResponse struct {
	Project    *fileflow.Project     `json:"project"`
	Files      []fileflow.StoredFile `json:"files"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
	Window     []pagination.Marker   `json:"window"`
	Nav        pagination.Nav        `json:"nav"`
}

// List returns one page of the active project's files with its page window.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	active, ok := activeProject(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "no project selected")
		return
	}

	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	state := pagination.ParseState(r.URL.Query())
	result, q, err := fetchPage(r.Context(), h.coordinator, sessionOwner(r), query.New(query.Files, active.ID, state), client.ListFiles)
	switch {
	case errors.Is(err, errSuperseded):
		respondError(w, http.StatusConflict, err.Error())
		return
	case endSession(w, r, h.sessionManager, err):
		return
	case err != nil:
		respondError(w, backendStatus(err), fileflow.Message(err))
		return
	}

	ctrl := pagination.Controller{Total: result.Total(), CurrentPage: q.State.Page, PageSize: q.State.PageSize}
	window := ctrl.Window()
	if window == nil {
		window = []pagination.Marker{}
	}
	respondJSON(w, http.StatusOK, FilesResponse{
		Project:    active,
		Files:      result.Items,
		Page:       q.State.Page,
		PageSize:   q.State.PageSize,
		Total:      result.Total(),
		TotalPages: ctrl.TotalPages(),
		Window:     window,
		Nav:        ctrl.Nav(),
	})
}

// activeProject returns the request's active project, if one is selected.
func activeProject(r *http.Request) (*fileflow.Project, bool) {
	store := project.FromContext(r.Context())
	if store == nil {
		return nil, false
	}
	return store.Active()
}
