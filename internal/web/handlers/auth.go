package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
	views          *views.Renderer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, sm *middleware.SessionManager, v *views.Renderer) *AuthHandler {
	return &AuthHandler{
		config:         cfg,
		sessionManager: sm,
		views:          v,
	}
}

// LoginForm shows the login page. Signed-in users go straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetSessionFromRequest(r) != nil {
		http.Redirect(w, r, callbackTarget(r.URL.Query().Get("callbackUrl")), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, views.LoginData{CallbackURL: r.URL.Query().Get("callbackUrl")}, "")
}

// Login signs the user in against the backend and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, views.LoginData{}, "Invalid login form")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	data := views.LoginData{Email: email, CallbackURL: r.PostFormValue("callbackUrl")}

	if email == "" || password == "" {
		h.renderLogin(w, http.StatusBadRequest, data, "Email and password are required")
		return
	}

	result, err := fileflow.Login(r.Context(), h.config.Backend.URL, email, password)
	if err != nil {
		status := fileflow.StatusCode(err)
		logging.Warn().Err(err).Str("email", sanitizeForLog(email)).Msg("login failed")
		if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusNotFound {
			h.renderLogin(w, http.StatusUnauthorized, data, "Invalid email or password")
			return
		}
		h.renderLogin(w, http.StatusBadGateway, data, fileflow.Message(err))
		return
	}

	who := middleware.Identity{
		UserID:    result.User.ID,
		Email:     result.User.Email,
		FirstName: result.User.FirstName,
		LastName:  result.User.LastName,
	}
	session, err := h.sessionManager.CreateSession(r.Context(), result.Token, who, tokenExpiry(result.Token))
	if err != nil {
		logging.Error().Err(err).Msg("failed to create session")
		h.renderLogin(w, http.StatusInternalServerError, data, "Could not start a session, please try again")
		return
	}

	h.sessionManager.SetSessionCookie(w, r, session)
	logging.Info().Int64("user_id", who.UserID).Msg("user signed in")
	http.Redirect(w, r, callbackTarget(data.CallbackURL), http.StatusSeeOther)
}

// Logout ends the session and forgets the active project
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessionManager.GetSessionFromRequest(r); session != nil {
		h.sessionManager.DeleteSession(r.Context(), session.ID)
	}

	h.sessionManager.ClearSessionCookie(w)
	project.NewStore(project.NewCookiePersister(w, r, h.sessionManager.IsSecure(r))).Clear()
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// StatusResponse represents the auth status response
type StatusResponse struct {
	Authenticated bool                 `json:"authenticated"`
	ExpiresAt     string               `json:"expires_at,omitempty"`
	User          *middleware.Identity `json:"user,omitempty"`
}

// Status reports whether the request carries a valid session.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	session := h.sessionManager.GetSessionFromRequest(r)
	if session == nil {
		respondJSON(w, http.StatusOK, StatusResponse{Authenticated: false})
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{
		Authenticated: true,
		ExpiresAt:     session.ExpiresAt.UTC().Format(time.RFC3339),
		User:          &session.Identity,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, status int, data views.LoginData, message string) {
	renderPage(w, h.views, status, "login", &views.Page{Title: "Sign in", Error: message, Data: data})
}

// callbackTarget returns where to go after login. Anything but a local path
// falls back to the dashboard.
func callbackTarget(callback string) string {
	if callback == "" || !middleware.IsLocalPath(callback) {
		return "/"
	}
	return callback
}

// tokenExpiry reads the exp claim of the backend token. The token is only
// inspected, not verified: the backend checks it on every call. Sessions
// never outlive constants.SessionDuration.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	limit := time.Now().Add(constants.SessionDuration)
	if claims.ExpiresAt.After(limit) {
		return limit
	}
	return claims.ExpiresAt.Time
}
