package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

const sessionCookieName = constants.SessionCookieName

// Identity is the signed-in user as reported by the backend at login.
type Identity struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Initial returns the upper-cased first letter of the first name, or "FF".
func (i Identity) Initial() string {
	name := strings.TrimSpace(i.FirstName)
	if name == "" {
		return "FF"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

// Session represents a user session
type Session struct {
	ID    string `json:"id"`
	Token string `json:"token"` // FileFlow access token
	Identity
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StoredSession is the persisted form of a session.
type StoredSession struct {
	ID        string
	Token     string
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *StoredSession) session() *Session {
	return &Session{
		ID:    s.ID,
		Token: s.Token,
		Identity: Identity{
			UserID:    s.UserID,
			Email:     s.Email,
			FirstName: s.FirstName,
			LastName:  s.LastName,
		},
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (s *Session) stored() *StoredSession {
	return &StoredSession{
		ID:        s.ID,
		Token:     s.Token,
		UserID:    s.UserID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

// SessionRepository persists sessions so they survive restarts.
type SessionRepository interface {
	Save(ctx context.Context, s *StoredSession) error
	Get(ctx context.Context, sessionID string) (*StoredSession, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionManager handles session creation and validation
type SessionManager struct {
	secret   []byte
	sessions map[string]*Session
	mu       sync.RWMutex
	repo     SessionRepository
	secure   bool

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager creates a new session manager. repo may be nil, in
// which case sessions live in memory only.
func NewSessionManager(secret string, repo SessionRepository) *SessionManager {
	if secret == "" {
		secret = randomSecret()
		logging.Warn().Msg("no session secret configured, sessions will not survive a restart")
	}
	sm := &SessionManager{
		secret:   []byte(secret),
		sessions: make(map[string]*Session),
		repo:     repo,
		stop:     make(chan struct{}),
	}
	go sm.cleanupLoop(constants.SessionCleanupInterval)
	return sm
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// SetSecureCookies forces the Secure attribute on session cookies.
func (sm *SessionManager) SetSecureCookies(secure bool) {
	sm.secure = secure
}

// CreateSession creates a new session for a user. A zero expiresAt means
// constants.SessionDuration from now.
func (sm *SessionManager) CreateSession(ctx context.Context, token string, who Identity, expiresAt time.Time) (*Session, error) {
	now := time.Now()
	if expiresAt.IsZero() || !expiresAt.After(now) {
		expiresAt = now.Add(constants.SessionDuration)
	}

	session := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Identity:  who,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if sm.repo != nil {
		if err := sm.repo.Save(ctx, session.stored()); err != nil {
			return nil, err
		}
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by ID
func (sm *SessionManager) GetSession(ctx context.Context, sessionID string) *Session {
	sm.mu.RLock()
	session, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()

	if ok {
		if time.Now().After(session.ExpiresAt) {
			sm.DeleteSession(ctx, sessionID)
			return nil
		}
		return session
	}

	if sm.repo == nil {
		return nil
	}
	stored, err := sm.repo.Get(ctx, sessionID)
	if err != nil {
		logging.Error().Err(err).Msg("failed to load session")
		return nil
	}
	if stored == nil {
		return nil
	}

	session = stored.session()
	sm.mu.Lock()
	sm.sessions[sessionID] = session
	sm.mu.Unlock()
	return session
}

// DeleteSession removes a session
func (sm *SessionManager) DeleteSession(ctx context.Context, sessionID string) {
	sm.mu.Lock()
	delete(sm.sessions, sessionID)
	sm.mu.Unlock()

	if sm.repo != nil {
		if err := sm.repo.Delete(ctx, sessionID); err != nil {
			logging.Error().Err(err).Msg("failed to delete session")
		}
	}
}

// SetSessionCookie sets the session cookie on the response
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, r *http.Request, session *Session) {
	signature := sm.signData(session.ID)
	cookieValue := session.ID + "." + signature

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.IsSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// IsSecure reports whether cookies set for r should carry the Secure flag.
func (sm *SessionManager) IsSecure(r *http.Request) bool {
	if sm.secure {
		return true
	}
	return r != nil && (r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https"))
}

// GetSessionFromRequest extracts the session from a request
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) *Session {
	// Try cookie first
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		sessionID, signature, ok := strings.Cut(cookie.Value, ".")
		if ok && sm.verifySignature(sessionID, signature) {
			if session := sm.GetSession(r.Context(), sessionID); session != nil {
				return session
			}
		}
	}

	// Try Authorization header
	authHeader := r.Header.Get("Authorization")
	if sessionID, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		if session := sm.GetSession(r.Context(), sessionID); session != nil {
			return session
		}
	}

	return nil
}

// Stop ends the background cleanup goroutine.
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stop) })
}

func (sm *SessionManager) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.stop:
			return
		case <-ticker.C:
			sm.removeExpired(context.Background())
		}
	}
}

// removeExpired drops expired sessions from memory and the repository.
func (sm *SessionManager) removeExpired(ctx context.Context) int {
	now := time.Now()
	removed := 0

	sm.mu.Lock()
	for id, s := range sm.sessions {
		if now.After(s.ExpiresAt) {
			delete(sm.sessions, id)
			removed++
		}
	}
	sm.mu.Unlock()

	if sm.repo != nil {
		n, err := sm.repo.DeleteExpired(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("failed to delete expired sessions")
		} else if n > 0 {
			logging.Debug().Int64("count", n).Msg("deleted expired stored sessions")
		}
	}
	return removed
}

// signData creates an HMAC signature for data
func (sm *SessionManager) signData(data string) string {
	h := hmac.New(sha256.New, sm.secret)
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies an HMAC signature
func (sm *SessionManager) verifySignature(data, signature string) bool {
	expected := sm.signData(data)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// SessionData is a helper struct for JSON responses
type SessionData struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email,omitempty"`
	ExpiresAt string `json:"expires_at"`
}

// ToJSON returns the session data for JSON response
func (s *Session) ToJSON() SessionData {
	return SessionData{
		SessionID: s.ID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	}
}

// MarshalJSON implements json.Marshaler (excludes sensitive fields)
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToJSON())
}
