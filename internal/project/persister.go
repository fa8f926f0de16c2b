package project

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

// CookiePersister keeps the active project in a browser cookie. The JSON
// document is query-escaped because raw JSON is not a valid cookie value.
type CookiePersister struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	// written mirrors the last Save/Delete of this request.
	written *string
}

// NewCookiePersister binds a persister to one request/response pair.
func NewCookiePersister(w http.ResponseWriter, r *http.Request, secure bool) *CookiePersister {
	return &CookiePersister{w: w, r: r, secure: secure}
}

func (c *CookiePersister) Load() (string, bool) {
	if c.written != nil {
		return *c.written, *c.written != ""
	}
	cookie, err := c.r.Cookie(constants.ActiveProjectCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Save writes the cookie. Browsers silently drop cookies over
// constants.MaxCookieBytes, so an oversized value is logged.
func (c *CookiePersister) Save(value string, maxAge time.Duration) {
	escaped := url.QueryEscape(value)
	if size := len(constants.ActiveProjectCookieName) + len(escaped); size > constants.MaxCookieBytes {
		logging.Warn().
			Int("bytes", size).
			Int("limit", constants.MaxCookieBytes).
			Msg("active project cookie exceeds browser size limit and may be dropped")
	}

	http.SetCookie(c.w, &http.Cookie{
		Name:     constants.ActiveProjectCookieName,
		Value:    escaped,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.written = &value
}

func (c *CookiePersister) Delete() {
	http.SetCookie(c.w, &http.Cookie{
		Name:     constants.ActiveProjectCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	empty := ""
	c.written = &empty
}

// MemoryPersister keeps the value in memory. Tests use it.
type MemoryPersister struct {
	mu      sync.Mutex
	value   string
	present bool
	maxAge  time.Duration
}

func (m *MemoryPersister) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.present
}

func (m *MemoryPersister) Save(value string, maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.present, m.maxAge = value, true, maxAge
}

func (m *MemoryPersister) Delete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.present, m.maxAge = "", false, 0
}

// MaxAge returns the expiry of the last saved value.
func (m *MemoryPersister) MaxAge() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxAge
}
