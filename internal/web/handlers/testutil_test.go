package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

const testToken = "test-token"

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			URL:     "http://localhost:8190/v1",
			Timeout: 5 * time.Second,
		},
		MimeTypes: config.MimeTypesConfig{
			Options: []config.MimeTypeOption{
				{Value: "application/pdf", Label: "PDF"},
				{Value: "image/png", Label: "PNG Image"},
			},
		},
	}
}

// testSession is the signed-in user of handler tests
func testSession() *middleware.Session {
	return &middleware.Session{
		ID:    "session-1",
		Token: testToken,
		Identity: middleware.Identity{
			UserID:    7,
			Email:     "ada@fileflow.local",
			FirstName: "Ada",
			LastName:  "Admin",
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func testProject() *fileflow.Project {
	return &fileflow.Project{
		ID:               1,
		Name:             "Marketing Assets",
		Description:      "Brand files",
		MaxUploadSize:    5,
		ProjectKey:       "key-1",
		AllowedFileTypes: []string{"application/pdf"},
	}
}

func testViews(t *testing.T) *views.Renderer {
	t.Helper()
	v, err := views.New()
	if err != nil {
		t.Fatalf("failed to parse views: %v", err)
	}
	return v
}

// envelope writes a successful backend response
func envelope(w http.ResponseWriter, status int, result any, meta *fileflow.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"result":  result,
		"meta":    meta,
	})
}

// backendError writes a failed backend response
func backendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]any{"code": status, "message": message},
	})
}

// setupMockBackend creates a mock FileFlow backend. Patterns are relative to
// the /v1 API prefix, e.g. "GET /projects".
func setupMockBackend(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range handlers {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" /v1"+path, handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// testEnv is what the auth middleware chain would put into a request
type testEnv struct {
	session   *middleware.Session
	client    *fileflow.Client
	persister *project.MemoryPersister
}

func newTestEnv(t *testing.T, server *httptest.Server) *testEnv {
	t.Helper()
	env := &testEnv{session: testSession(), persister: &project.MemoryPersister{}}
	if server != nil {
		client, err := fileflow.NewFromToken(server.URL+"/v1", testToken)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		env.client = client
	}
	return env
}

// withActive stores p as the active project
func (e *testEnv) withActive(t *testing.T, p *fileflow.Project) *testEnv {
	t.Helper()
	if err := project.NewStore(e.persister).SetActive(p); err != nil {
		t.Fatalf("failed to set active project: %v", err)
	}
	return e
}

// store reloads the persisted active project
func (e *testEnv) store() *project.Store {
	return project.NewStore(e.persister)
}

// request builds a request carrying the env's session, client and store
func (e *testEnv) request(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.SetSessionInContext(req.Context(), e.session)
	if e.client != nil {
		ctx = middleware.SetFileflowInContext(ctx, e.client)
	}
	ctx = project.WithStore(ctx, project.NewStore(e.persister))
	return req.WithContext(ctx)
}

// form builds a url-encoded POST request
func (e *testEnv) form(target string, values url.Values) *http.Request {
	req := e.request(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertRedirect checks for a 303 to the expected location
func assertRedirect(t *testing.T, recorder *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatusCode(t, recorder, http.StatusSeeOther)
	if got := recorder.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %q, got %q", location, got)
	}
}

// assertBodyContains checks that the response body contains every fragment
func assertBodyContains(t *testing.T, recorder *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := recorder.Body.String()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Errorf("expected body to contain %q\nBody: %s", f, body)
		}
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
