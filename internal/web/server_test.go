package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
)

func envelope(w http.ResponseWriter, result any, meta map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "result": result, "meta": meta})
}

func mockBackend(t *testing.T) *httptest.Server {
	t.Helper()
	project := map[string]any{"id": 2, "name": "Invoices", "max_upload_size": 10, "project_key": "k2"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, map[string]any{
			"token": "backend-token",
			"user":  map[string]any{"id": 7, "email": "ada@fileflow.local", "first_name": "Ada"},
		}, nil)
	})
	mux.HandleFunc("GET /v1/projects/2/project-info", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, project, nil)
	})
	mux.HandleFunc("GET /v1/projects/2/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer backend-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		envelope(w, []map[string]any{{"id": "f1", "name": "invoice-001.pdf", "size": 1024}},
			map[string]any{"total_records": 1, "limit": 10, "offset": 0})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, backendURL string) *httptest.Server {
	t.Helper()
	cfg := config.Load()
	cfg.Backend.URL = backendURL
	cfg.Web.SessionSecret = "test-secret"

	s, err := NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(s.SessionManager().Stop)

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func read(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestServer_PublicEndpoints(t *testing.T) {
	ts := newTestServer(t, "http://localhost:8190/v1")

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/api/v1/health", http.StatusOK, `"status":"ok"`},
		{"/api/v1/auth/status", http.StatusOK, `"authenticated":false`},
		{"/static/app.css", http.StatusOK, "sidebar"},
		{"/login", http.StatusOK, "Sign in to FileFlow"},
		{"/metrics", http.StatusOK, "go_goroutines"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			body := read(t, resp)
			if resp.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("expected body to contain %q", tt.contains)
			}
			if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
				t.Error("expected security headers")
			}
		})
	}
}

func TestServer_RequiresAuth(t *testing.T) {
	ts := newTestServer(t, "http://localhost:8190/v1")
	browser := newBrowser(t)

	resp, err := browser.Get(ts.URL + "/users?page=2")
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login?callbackUrl=%2Fusers%3Fpage%3D2" {
		t.Errorf("expected redirect to login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = browser.Get(ts.URL + "/api/v1/files")
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for the API, got %d", resp.StatusCode)
	}
}

func TestServer_LoginSelectProjectAndBrowseFiles(t *testing.T) {
	backend := mockBackend(t)
	ts := newTestServer(t, backend.URL+"/v1")
	browser := newBrowser(t)

	resp, err := browser.PostForm(ts.URL+"/login", url.Values{
		"email":    {"ada@fileflow.local"},
		"password": {"secret"},
	})
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect to the dashboard, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	// No project selected yet
	resp, err = browser.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)
	if resp.Header.Get("Location") != "/projects" {
		t.Fatalf("expected redirect to the project picker, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = browser.PostForm(ts.URL+"/projects/select", url.Values{"id": {"2"}})
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected select to redirect, got %d", resp.StatusCode)
	}

	resp, err = browser.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := read(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected the files page, got %d", resp.StatusCode)
	}
	for _, want := range []string{"invoice-001.pdf", "Project: <a href=\"/projects\">Invoices</a>", "Showing 1 to 1 of 1 items"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected files page to contain %q", want)
		}
	}

	resp, err = browser.Get(ts.URL + "/api/v1/active-project")
	if err != nil {
		t.Fatal(err)
	}
	if body := read(t, resp); !strings.Contains(body, `"name":"Invoices"`) {
		t.Errorf("expected the active project over the API, got %s", body)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/logout", nil)
	resp, err = browser.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)

	resp, err = browser.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	read(t, resp)
	if resp.StatusCode != http.StatusSeeOther || !strings.HasPrefix(resp.Header.Get("Location"), "/login") {
		t.Errorf("expected to be signed out, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}
