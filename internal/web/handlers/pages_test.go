package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPagesHandler_Security(t *testing.T) {
	env := newTestEnv(t, nil).withActive(t, testProject())

	recorder := httptest.NewRecorder()
	NewPagesHandler(testViews(t)).Security(recorder, env.request(http.MethodGet, "/security", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertBodyContains(t, recorder,
		"Security Configuration",
		"8 Whitelisted IPs",
		"203.0.113.0/24",
		`<span class="badge warn">Warning</span>`,
		`<a href="/">Marketing Assets</a>`,
		`class="nav-link active" href="/security"`,
	)
}

func TestPagesHandler_Activity(t *testing.T) {
	env := newTestEnv(t, nil)

	recorder := httptest.NewRecorder()
	NewPagesHandler(testViews(t)).Activity(recorder, env.request(http.MethodGet, "/activity", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertBodyContains(t, recorder, "Activity Log", "Firewall Rule Updated", `<span class="current">Activity</span>`)
}
