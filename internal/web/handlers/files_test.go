package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/query"
)

// filesBackend serves total files for project 1, honoring limit and offset
func filesBackend(t *testing.T, total int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return setupMockBackend(t, map[string]http.HandlerFunc{
		"GET /projects/1/files": func(w http.ResponseWriter, r *http.Request) {
			if calls != nil {
				calls.Add(1)
			}
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				backendError(w, http.StatusUnauthorized, "token expired")
				return
			}
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
			if err != nil || offset < 0 {
				backendError(w, http.StatusBadRequest, "OFFSET must not be negative")
				return
			}
			files := []fileflow.StoredFile{}
			for i := offset; i < min(offset+limit, total); i++ {
				files = append(files, fileflow.StoredFile{
					ID:   strconv.Itoa(i + 1),
					Name: fmt.Sprintf("file-%03d.pdf", i+1),
					Size: 2048,
				})
			}
			envelope(w, http.StatusOK, files, &fileflow.Meta{
				TotalRecords: int64(total), Limit: int64(limit), Offset: int64(offset),
			})
		},
	})
}

func TestFilesHandler_Page_RedirectsWithoutProject(t *testing.T) {
	env := newTestEnv(t, nil)
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.Page(recorder, env.request(http.MethodGet, "/", nil))

	assertRedirect(t, recorder, "/projects")
}

func TestFilesHandler_Page(t *testing.T) {
	server := filesBackend(t, 42, nil)
	env := newTestEnv(t, server).withActive(t, testProject())
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.Page(recorder, env.request(http.MethodGet, "/?page=2&size=10", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertBodyContains(t, recorder,
		"Marketing Assets",
		"file-011.pdf",
		"file-020.pdf",
		"2 KB",
		"Showing 11 to 20 of 42 items",
		`<span class="page current" aria-current="page">2</span>`,
		`<span class="avatar" title="ada@fileflow.local">A</span>`,
	)
}

func TestFilesHandler_Page_ClampsPastTheEnd(t *testing.T) {
	var calls atomic.Int32
	server := filesBackend(t, 42, &calls)
	env := newTestEnv(t, server).withActive(t, testProject())
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.Page(recorder, env.request(http.MethodGet, "/?page=9&size=10", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertBodyContains(t, recorder, "file-041.pdf", "Showing 41 to 42 of 42 items")
	if calls.Load() != 2 {
		t.Errorf("expected one refetch after clamping, got %d calls", calls.Load())
	}
}

func TestFilesHandler_Page_HugePageNumberClamps(t *testing.T) {
	var calls atomic.Int32
	server := filesBackend(t, 42, &calls)
	env := newTestEnv(t, server).withActive(t, testProject())
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.Page(recorder, env.request(http.MethodGet, "/?page=1000000000000000000&size=10", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertBodyContains(t, recorder, "file-041.pdf", "Showing 41 to 42 of 42 items")
	if calls.Load() != 2 {
		t.Errorf("expected one refetch after clamping, got %d calls", calls.Load())
	}
}

func TestFilesHandler_Page_SupersededRendersErrorPage(t *testing.T) {
	started := make(chan struct{})
	var first atomic.Bool
	server := setupMockBackend(t, map[string]http.HandlerFunc{
		"GET /projects/1/files": func(w http.ResponseWriter, r *http.Request) {
			if first.CompareAndSwap(false, true) {
				close(started)
				<-r.Context().Done()
				return
			}
			envelope(w, http.StatusOK, []fileflow.StoredFile{{ID: "11", Name: "file-011.pdf"}},
				&fileflow.Meta{TotalRecords: 11, Limit: 10, Offset: 10})
		},
	})
	env := newTestEnv(t, server).withActive(t, testProject())
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	older := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		recorder := httptest.NewRecorder()
		handler.Page(recorder, env.request(http.MethodGet, "/?page=1", nil))
		older <- recorder
	}()
	<-started

	newer := httptest.NewRecorder()
	handler.Page(newer, env.request(http.MethodGet, "/?page=2", nil))
	assertStatusCode(t, newer, http.StatusOK)
	assertBodyContains(t, newer, "file-011.pdf")

	recorder := <-older
	assertStatusCode(t, recorder, http.StatusConflict)
	assertBodyContains(t, recorder, "Error 409", "replaced by a newer request", "Back to dashboard")
}

func TestFilesHandler_Page_BackendError(t *testing.T) {
	server := setupMockBackend(t, map[string]http.HandlerFunc{
		"GET /projects/1/files": func(w http.ResponseWriter, r *http.Request) {
			backendError(w, http.StatusBadRequest, "project is archived")
		},
	})
	env := newTestEnv(t, server).withActive(t, testProject())
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.Page(recorder, env.request(http.MethodGet, "/", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertBodyContains(t, recorder, "project is archived", "No files found", "No items")
}

func TestFilesHandler_Page_UnauthorizedEndsSession(t *testing.T) {
	server := filesBackend(t, 5, nil)
	sm := newTestSessionManager(t)
	env := newTestEnv(t, server).withActive(t, testProject())

	session, err := sm.CreateSession(t.Context(), "stale-token", env.session.Identity, env.session.ExpiresAt)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	env.session = session
	env.client, _ = fileflow.NewFromToken(server.URL+"/v1", "stale-token")

	handler := NewFilesHandler(testConfig(), sm, testViews(t), query.NewCoordinator())
	recorder := httptest.NewRecorder()
	handler.Page(recorder, env.request(http.MethodGet, "/?page=1", nil))

	assertRedirect(t, recorder, "/login?callbackUrl=%2F%3Fpage%3D1")
	if sm.GetSession(t.Context(), session.ID) != nil {
		t.Error("expected the session to be deleted")
	}
}

func TestFilesHandler_List(t *testing.T) {
	server := filesBackend(t, 200, nil)
	env := newTestEnv(t, server).withActive(t, testProject())
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.List(recorder, env.request(http.MethodGet, "/api/v1/files?page=10&size=10", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var resp FilesResponse
	parseJSONResponse(t, recorder, &resp)

	if resp.Page != 10 || resp.PageSize != 10 || resp.Total != 200 || resp.TotalPages != 20 {
		t.Errorf("unexpected paging: %+v", resp)
	}
	if len(resp.Files) != 10 || resp.Files[0].Name != "file-091.pdf" {
		t.Errorf("unexpected files: %+v", resp.Files)
	}

	var window []string
	for _, m := range resp.Window {
		window = append(window, m.String())
	}
	if fmt.Sprint(window) != "[1 ... 9 10 11 ... 20]" {
		t.Errorf("unexpected window %v", window)
	}
	if resp.Nav.Previous.Page != 9 || resp.Nav.Next.Page != 11 || resp.Nav.First.Disabled || resp.Nav.Last.Disabled {
		t.Errorf("unexpected nav %+v", resp.Nav)
	}
}

func TestFilesHandler_List_NoProject(t *testing.T) {
	env := newTestEnv(t, nil)
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.List(recorder, env.request(http.MethodGet, "/api/v1/files", nil))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "no project selected")
}

func TestFilesHandler_List_Unauthorized(t *testing.T) {
	server := filesBackend(t, 5, nil)
	env := newTestEnv(t, server).withActive(t, testProject())
	env.client, _ = fileflow.NewFromToken(server.URL+"/v1", "stale-token")
	handler := NewFilesHandler(testConfig(), newTestSessionManager(t), testViews(t), query.NewCoordinator())

	recorder := httptest.NewRecorder()
	handler.List(recorder, env.request(http.MethodGet, "/api/v1/files", nil))

	assertStatusCode(t, recorder, http.StatusUnauthorized)
}
