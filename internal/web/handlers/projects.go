package handlers

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

// Validation messages of the project forms.
const (
	msgNameRequired    = "Project name is required"
	msgMaxSizePositive = "Max file size must be greater than 0"
)

// ProjectsHandler handles the project picker and the project forms
type ProjectsHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
	views          *views.Renderer
}

// NewProjectsHandler creates a new projects handler
func NewProjectsHandler(cfg *config.Config, sm *middleware.SessionManager, v *views.Renderer) *ProjectsHandler {
	return &ProjectsHandler{
		config:         cfg,
		sessionManager: sm,
		views:          v,
	}
}

// List renders one page of projects with a select button per row.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	state := pagination.ParseState(r.URL.Query())
	page := pageFor(r, "Projects", "projects")
	page.Crumbs = []views.Crumb{{Label: "Projects"}}
	data := views.ProjectsData{}
	if page.ActiveProject != nil {
		data.ActiveID = page.ActiveProject.ID
	}

	result, err := client.ListProjects(r.Context(), state.Limit(), state.Offset())
	if err == nil {
		if clamped := state.Clamp(result.Total()); clamped != state {
			state = clamped
			result, err = client.ListProjects(r.Context(), state.Limit(), state.Offset())
		}
	}

	switch {
	case endSession(w, r, h.sessionManager, err):
		return
	case err != nil:
		logging.Error().Err(err).Msg("failed to list projects")
		page.Error = fileflow.Message(err)
		data.Pager = views.NewPager("/projects", state, 0, false)
	default:
		data.Projects = result.Items
		data.Pager = views.NewPager("/projects", state, result.Total(), false)
	}

	page.Data = data
	renderPage(w, h.views, http.StatusOK, "projects", page)
}

// Select makes the posted project the active one. The project is looked up
// on the backend so the stored copy carries its key and allowed types.
func (h *ProjectsHandler) Select(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(w, r, h.views, http.StatusBadRequest, "Invalid project")
		return
	}

	p, err := client.GetProject(r.Context(), id)
	if endSession(w, r, h.sessionManager, err) {
		return
	}
	if err != nil {
		logging.Warn().Err(err).Int64("project_id", id).Msg("failed to load selected project")
		renderError(w, r, h.views, backendStatus(err), fileflow.Message(err))
		return
	}

	if !h.activate(w, r, p) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CreateForm shows an empty project form.
func (h *ProjectsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	form := views.ProjectForm{MaxUploadSize: strconv.Itoa(constants.DefaultMaxUploadSize)}
	h.renderCreate(w, r, http.StatusOK, h.formData(r.Context(), client, form, views.FormErrors{}), "")
}

// Create validates the form, creates the project and makes it active.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	form, input, errs := parseProjectForm(r)
	if errs.Any() {
		h.renderCreate(w, r, http.StatusUnprocessableEntity, h.formData(r.Context(), client, form, errs), "")
		return
	}

	created, err := client.CreateProject(r.Context(), input)
	if endSession(w, r, h.sessionManager, err) {
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("name", sanitizeForLog(input.Name)).Msg("failed to create project")
		h.renderCreate(w, r, backendStatus(err), h.formData(r.Context(), client, form, errs), fileflow.Message(err))
		return
	}

	logging.Info().Int64("project_id", created.ID).Msg("project created")
	if !h.activate(w, r, created) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SettingsForm shows the active project's settings.
func (h *ProjectsHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	active, ok := activeProject(r)
	if !ok {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	var message string
	current, err := client.GetProject(r.Context(), active.ID)
	if endSession(w, r, h.sessionManager, err) {
		return
	}
	if err != nil {
		logging.Warn().Err(err).Int64("project_id", active.ID).Msg("failed to refresh project settings")
		message = fileflow.Message(err)
		current = active
	}

	data := h.formData(r.Context(), client, formFromProject(current), views.FormErrors{})
	data.ProjectID = current.ID
	data.ProjectKey = current.ProjectKey

	page := h.settingsPage(r, current)
	page.Error = message
	switch {
	case r.URL.Query().Has("saved"):
		page.Flash = "Project settings saved"
	case r.URL.Query().Has("regenerated"):
		page.Flash = "A new project key has been generated"
	}
	page.Data = data
	renderPage(w, h.views, http.StatusOK, "project_form", page)
}

// Settings validates and saves the active project's settings.
func (h *ProjectsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	active, ok := activeProject(r)
	if !ok {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	form, input, errs := parseProjectForm(r)
	data := h.formData(r.Context(), client, form, errs)
	data.ProjectID = active.ID
	data.ProjectKey = active.ProjectKey

	page := h.settingsPage(r, active)
	if errs.Any() {
		page.Data = data
		renderPage(w, h.views, http.StatusUnprocessableEntity, "project_form", page)
		return
	}

	updated := *active
	updated.Name = input.Name
	updated.Description = input.Description
	updated.MaxUploadSize = input.MaxUploadSize
	updated.AllowedFileTypes = input.AllowedFileTypes

	saved, err := client.UpdateProject(r.Context(), updated)
	if endSession(w, r, h.sessionManager, err) {
		return
	}
	if err != nil {
		logging.Error().Err(err).Int64("project_id", active.ID).Msg("failed to update project")
		page.Error = fileflow.Message(err)
		page.Data = data
		renderPage(w, h.views, backendStatus(err), "project_form", page)
		return
	}
	if saved.ID == 0 {
		saved = &updated
	}

	if !h.activate(w, r, saved) {
		return
	}
	http.Redirect(w, r, "/projects/settings?saved=1", http.StatusSeeOther)
}

// RegenerateKey issues a new key for the active project.
func (h *ProjectsHandler) RegenerateKey(w http.ResponseWriter, r *http.Request) {
	active, ok := activeProject(r)
	if !ok {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	p, err := client.RegenerateProjectKey(r.Context(), active.ID)
	if endSession(w, r, h.sessionManager, err) {
		return
	}
	if err != nil {
		logging.Error().Err(err).Int64("project_id", active.ID).Msg("failed to regenerate project key")
		renderError(w, r, h.views, backendStatus(err), fileflow.Message(err))
		return
	}

	logging.Info().Int64("project_id", active.ID).Msg("project key regenerated")
	if !h.activate(w, r, p) {
		return
	}
	http.Redirect(w, r, "/projects/settings?regenerated=1", http.StatusSeeOther)
}

// activate stores p as the active project. It reports false after writing an
// error response.
func (h *ProjectsHandler) activate(w http.ResponseWriter, r *http.Request, p *fileflow.Project) bool {
	store, err := project.Require(r.Context())
	if err == nil {
		err = store.SetActive(p)
	}
	if err != nil {
		logging.Error().Err(err).Msg("failed to store active project")
		renderError(w, r, h.views, http.StatusInternalServerError, "Could not select the project")
		return false
	}
	return true
}

func (h *ProjectsHandler) renderCreate(w http.ResponseWriter, r *http.Request, status int, data views.ProjectFormData, message string) {
	page := pageFor(r, "New Project", "projects")
	page.Crumbs = []views.Crumb{{Label: "Projects", URL: "/projects"}, {Label: "New Project"}}
	page.Error = message
	data.Action = "/projects/create"
	data.Submit = "Create Project"
	page.Data = data
	renderPage(w, h.views, status, "project_form", page)
}

func (h *ProjectsHandler) settingsPage(r *http.Request, p *fileflow.Project) *views.Page {
	page := pageFor(r, "Project Settings", "settings")
	page.Crumbs = []views.Crumb{{Label: p.Name, URL: "/"}, {Label: "Settings"}}
	return page
}

// formData fills in the MIME type choices for a project form.
func (h *ProjectsHandler) formData(ctx context.Context, client *fileflow.Client, form views.ProjectForm, errs views.FormErrors) views.ProjectFormData {
	return views.ProjectFormData{
		Action:    "/projects/settings",
		Submit:    "Save Changes",
		Form:      form,
		Errors:    errs,
		MimeTypes: h.mimeOptions(ctx, client, form.AllowedFileTypes),
	}
}

// mimeOptions lists the backend's file types, falling back to the configured
// list when the backend has none. Selected types missing from the list are
// appended so saving never drops them.
func (h *ProjectsHandler) mimeOptions(ctx context.Context, client *fileflow.Client, selected []string) []views.MimeOption {
	var options []views.MimeOption
	types, err := client.ListFileTypes(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to load file types, using configured list")
	}
	for _, ft := range types {
		if ft.MimeType == "" {
			continue
		}
		label := ft.Name
		if label == "" {
			label = h.config.MimeTypeLabel(ft.MimeType)
		}
		options = append(options, views.MimeOption{Value: ft.MimeType, Label: label})
	}
	if len(options) == 0 {
		for _, opt := range h.config.MimeTypes.Options {
			options = append(options, views.MimeOption{Value: opt.Value, Label: opt.Label})
		}
	}

	for _, mt := range selected {
		known := slices.ContainsFunc(options, func(o views.MimeOption) bool { return o.Value == mt })
		if !known {
			options = append(options, views.MimeOption{Value: mt, Label: h.config.MimeTypeLabel(mt)})
		}
	}
	return options
}

// parseProjectForm reads and validates the create and settings forms.
func parseProjectForm(r *http.Request) (views.ProjectForm, fileflow.ProjectInput, views.FormErrors) {
	r.ParseForm()

	form := views.ProjectForm{
		Name:             strings.TrimSpace(r.PostFormValue("name")),
		Description:      strings.TrimSpace(r.PostFormValue("description")),
		MaxUploadSize:    strings.TrimSpace(r.PostFormValue("max_upload_size")),
		AllowedFileTypes: r.PostForm["allowed_file_types"],
	}

	var errs views.FormErrors
	if form.Name == "" {
		errs.Name = msgNameRequired
	}
	size, err := strconv.ParseInt(form.MaxUploadSize, 10, 64)
	if err != nil || size <= 0 {
		errs.MaxUploadSize = msgMaxSizePositive
	}

	input := fileflow.ProjectInput{
		Name:             form.Name,
		Description:      form.Description,
		MaxUploadSize:    size,
		AllowedFileTypes: form.AllowedFileTypes,
	}
	return form, input, errs
}

func formFromProject(p *fileflow.Project) views.ProjectForm {
	return views.ProjectForm{
		Name:             p.Name,
		Description:      p.Description,
		MaxUploadSize:    strconv.FormatInt(p.MaxUploadSize, 10),
		AllowedFileTypes: p.AllowedFileTypes,
	}
}
