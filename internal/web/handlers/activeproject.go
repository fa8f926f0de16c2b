package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
)

// ActiveProjectHandler exposes the active-project store as JSON
type ActiveProjectHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
}

// NewActiveProjectHandler creates a new active project handler
func NewActiveProjectHandler(cfg *config.Config, sm *middleware.SessionManager) *ActiveProjectHandler {
	return &ActiveProjectHandler{
		config:         cfg,
		sessionManager: sm,
	}
}

// ActiveProjectResponse wraps the active project; Project is null when none is selected.
type ActiveProjectResponse struct {
	Project *fileflow.Project `json:"project"`
}

type selectProjectRequest struct {
	ID int64 `json:"id"`
}

// Get returns the active project.
func (h *ActiveProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, err := project.Require(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	active, _ := store.Active()
	respondJSON(w, http.StatusOK, ActiveProjectResponse{Project: active})
}

// Set looks the project up on the backend and makes it active.
func (h *ActiveProjectHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req selectProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.ID <= 0 {
		respondError(w, http.StatusBadRequest, "project id is required")
		return
	}

	store, err := project.Require(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	client := middleware.MustGetFileflow(r.Context(), w)
	if client == nil {
		return
	}

	p, err := client.GetProject(r.Context(), req.ID)
	if endSession(w, r, h.sessionManager, err) {
		return
	}
	if err != nil {
		respondError(w, backendStatus(err), fileflow.Message(err))
		return
	}

	if err := store.SetActive(p); err != nil {
		logging.Error().Err(err).Int64("project_id", req.ID).Msg("failed to store active project")
		respondError(w, http.StatusInternalServerError, "failed to store active project")
		return
	}
	respondJSON(w, http.StatusOK, ActiveProjectResponse{Project: p})
}

// Clear forgets the active project.
func (h *ActiveProjectHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, err := project.Require(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	store.Clear()
	w.WriteHeader(http.StatusNoContent)
}
