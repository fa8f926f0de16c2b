package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/project"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		origin         string
		allowLocalhost bool
		want           string
	}{
		{"https://files.example.com", false, "https://files.example.com"},
		{"http://localhost:3000", false, ""},
		{"http://127.0.0.1:8080", false, ""},
		{"http://localhost:3000", true, "http://localhost:3000"},
		{"http://127.0.0.1:8080", true, "http://127.0.0.1:8080"},
		{"http://localhost.evil.example", true, ""},
		{"https://other.example.com", true, ""},
	}
	for _, tt := range tests {
		handler := CORS([]string{"https://files.example.com"}, tt.allowLocalhost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/health", nil)
		req.Header.Set("Origin", tt.origin)
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s (localhost=%v): Allow-Origin = %q, want %q", tt.origin, tt.allowLocalhost, got, tt.want)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS(nil, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/active-project", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	handler.ServeHTTP(w, req)

	if called {
		t.Error("preflight should not reach the handler")
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials to be allowed")
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestWithActiveProject(t *testing.T) {
	sm := newTestManager(t, nil)

	var got *fileflow.Project
	handler := WithActiveProject(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, err := project.Require(r.Context())
		if err != nil {
			t.Fatalf("store missing: %v", err)
		}
		got, _ = store.Active()
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  constants.ActiveProjectCookieName,
		Value: url.QueryEscape(`{"id":4,"name":"Invoices"}`),
	})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != 4 || got.Name != "Invoices" {
		t.Errorf("active project = %+v", got)
	}
}

func TestWithFileflowClient(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendConfig{URL: "http://backend.local/v1", Timeout: time.Second}}

	var client *fileflow.Client
	handler := WithFileflowClient(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client = MustGetFileflow(r.Context(), w)
	}))

	t.Run("with session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(SetSessionInContext(req.Context(), &Session{ID: "s1", Token: "tok"}))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if client == nil || client.Token() != "tok" {
			t.Fatalf("expected client with session token, got %+v", client)
		}
	})

	t.Run("without session", func(t *testing.T) {
		client = nil
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/files", nil))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if client != nil {
			t.Error("handler should not run without a session")
		}
	})
}

func TestMustGetFileflow_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	if MustGetFileflow(httptest.NewRequest("GET", "/", nil).Context(), w) != nil {
		t.Error("expected nil client")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
