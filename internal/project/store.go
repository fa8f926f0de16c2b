// Package project holds the active-project store: the single place the
// dashboard reads and writes which project the user is working in.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

// ErrNoStore is returned when a request context carries no store.
var ErrNoStore = errors.New("no active project store in context")

// Persister is where the store keeps the serialized active project between
// requests.
type Persister interface {
	// Load returns the persisted value and whether one exists.
	Load() (string, bool)
	// Save replaces the persisted value; it expires after maxAge.
	Save(value string, maxAge time.Duration)
	// Delete removes the persisted value.
	Delete()
}

// Store is the active project of one browser session.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	active    *fileflow.Project
}

// NewStore creates a store and initializes it from p. An absent or
// malformed persisted value leaves the store without an active project.
func NewStore(p Persister) *Store {
	s := &Store{persister: p}
	if raw, ok := p.Load(); ok {
		s.active = decode(raw)
	}
	return s
}

func decode(raw string) *fileflow.Project {
	var p fileflow.Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		logging.Debug().Err(err).Msg("ignoring malformed active project")
		return nil
	}
	if p.ID <= 0 {
		logging.Debug().Int64("id", p.ID).Msg("ignoring active project without id")
		return nil
	}
	return &p
}

// Active returns a copy of the active project, if one is set.
func (s *Store) Active() (*fileflow.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, false
	}
	p := clone(s.active)
	return p, true
}

// ActiveID returns the active project's ID, or 0.
func (s *Store) ActiveID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return 0
	}
	return s.active.ID
}

// SetActive makes p the active project and persists it for
// constants.ActiveProjectMaxAge. A nil p clears the active project.
func (s *Store) SetActive(p *fileflow.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil {
		s.active = nil
		s.persister.Delete()
		return nil
	}
	if p.ID <= 0 {
		return fmt.Errorf("cannot activate project with id %d", p.ID)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("could not serialize active project: %w", err)
	}
	s.active = clone(p)
	s.persister.Save(string(data), constants.ActiveProjectMaxAge)
	return nil
}

// Clear removes the active project, e.g. on sign-out.
func (s *Store) Clear() {
	_ = s.SetActive(nil)
}

func clone(p *fileflow.Project) *fileflow.Project {
	c := *p
	c.AllowedFileTypes = append([]string(nil), p.AllowedFileTypes...)
	return &c
}

type contextKey struct{}

// WithStore returns a copy of ctx carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store carried by ctx, or nil.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(contextKey{}).(*Store)
	return s
}

// Require returns the store carried by ctx or ErrNoStore.
func Require(ctx context.Context) (*Store, error) {
	if s := FromContext(ctx); s != nil {
		return s, nil
	}
	return nil, ErrNoStore
}
