// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Pagination constants
const (
	// DefaultPageSize is the page size used when a request does not ask for one
	DefaultPageSize = 10

	// MaxVisiblePages is the largest page count rendered without ellipses
	MaxVisiblePages = 5

	// DefaultProjectListSize is the number of projects fetched for the project picker
	DefaultProjectListSize = 100
)

// AllowedPageSizes lists the page sizes offered by list pages, in display order.
var AllowedPageSizes = []int{10, 25, 50, 100}

// Cookie constants
const (
	// ActiveProjectCookieName holds the JSON-encoded active project
	ActiveProjectCookieName = "fileflow_active_project"

	// ActiveProjectMaxAge is how long the active project survives in the browser
	ActiveProjectMaxAge = 30 * 24 * time.Hour

	// MaxCookieBytes is the cookie size browsers reliably keep; larger values are dropped
	MaxCookieBytes = 4096

	// SessionCookieName holds the signed server-side session ID
	SessionCookieName = "fileflow_session"

	// SessionDuration is used when the backend token carries no expiry
	SessionDuration = 24 * time.Hour

	// SessionCleanupInterval is how often expired in-memory sessions are swept
	SessionCleanupInterval = 15 * time.Minute
)
