package handlers

import (
	"net/http"

	"github.com/kudzaitsapo/fileflow-web/internal/web/views"
)

// PagesHandler serves the read-only settings pages. Their content is fixed
// until the backend exposes security settings and an audit log.
type PagesHandler struct {
	views *views.Renderer
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(v *views.Renderer) *PagesHandler {
	return &PagesHandler{views: v}
}

var securityEvents = []views.Event{
	{Name: "Login Attempt", Address: "192.168.1.45", User: "admin@example.com", At: "Mar 30, 2025 09:45:12", Status: "Success"},
	{Name: "Firewall Rule Updated", Address: "192.168.1.10", User: "admin@example.com", At: "Mar 29, 2025 15:32:01", Status: "Success"},
	{Name: "Login Attempt", Address: "45.123.45.67", User: "user@example.com", At: "Mar 29, 2025 10:15:30", Status: "Failed"},
	{Name: "IP Blocked", Address: "103.54.123.87", User: "Unknown", At: "Mar 28, 2025 23:12:45", Status: "Warning"},
}

// Security renders the security configuration overview.
func (h *PagesHandler) Security(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, "Security", "security")
	page.Crumbs = h.crumbs(page, "Security")
	page.Data = views.SecurityData{
		Stats: []views.Stat{
			{Label: "Firewall Status", Value: "Active", Detail: "Last updated: Today, 10:45 AM"},
			{Label: "Access Control", Value: "8 Whitelisted IPs", Detail: "2 IP ranges configured"},
			{Label: "Threat Protection", Value: "No threats detected", Detail: "12 threats blocked this month"},
		},
		Groups: []views.ToggleGroup{
			{Title: "Protocol Settings", Toggles: []views.Toggle{
				{Label: "Enable HTTPS Only", On: true},
				{Label: "Block FTP Access", On: true},
				{Label: "Enable DDOS Protection", On: true},
				{Label: "Block Suspicious Activity", On: true},
			}},
			{Title: "Password Policy", Toggles: []views.Toggle{
				{Label: "Require Complex Passwords", On: true},
				{Label: "Password Expiry (90 days)", On: true},
				{Label: "Prevent Password Reuse", On: true},
			}},
			{Title: "Two-Factor Authentication", Toggles: []views.Toggle{
				{Label: "Require 2FA for all users", On: true},
				{Label: "Allow SMS Authentication", On: true},
				{Label: "Allow Authenticator Apps", On: true},
			}},
		},
		Whitelist: []views.IPEntry{
			{Address: "192.168.1.10", Description: "Office main server", AddedBy: "Admin"},
			{Address: "10.0.0.15", Description: "Developer workstation", AddedBy: "Admin"},
			{Address: "203.0.113.0/24", Description: "Office IP range", AddedBy: "System"},
		},
		Events: securityEvents,
	}
	renderPage(w, h.views, http.StatusOK, "security", page)
}

// Activity renders the activity log.
func (h *PagesHandler) Activity(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, "Activity Log", "activity")
	page.Crumbs = h.crumbs(page, "Activity")
	page.Data = views.ActivityData{Events: securityEvents}
	renderPage(w, h.views, http.StatusOK, "activity", page)
}

func (h *PagesHandler) crumbs(page *views.Page, label string) []views.Crumb {
	crumbs := []views.Crumb{{Label: "Projects", URL: "/projects"}}
	if page.ActiveProject != nil {
		crumbs = append(crumbs, views.Crumb{Label: page.ActiveProject.Name, URL: "/"})
	}
	return append(crumbs, views.Crumb{Label: label})
}
