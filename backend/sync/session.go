package sync

import (
	"context"
	"sync"

	"tms/backend/models"
)

// Session drives cache population and teardown around the core. Credential
// verification lives in the API auth layer, not here; the role is a plain
// value the view layer uses for display and gating.
type Session struct {
	mu       sync.RWMutex
	core     *Core
	role     models.Role
	loggedIn bool
}

func NewSession(core *Core) *Session {
	return &Session{core: core}
}

// Login marks the session active and populates the caches. A failed refresh
// leaves the session logged out.
func (s *Session) Login(ctx context.Context, role models.Role) error {
	if err := s.core.Refresh(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.role = role
	return nil
}

// Logout tears the session down: caches, mirrors and role are all cleared.
// A new login starts from a fresh cache.
func (s *Session) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.role = ""
	s.mu.Unlock()
	s.core.Reset()
}

// SetRole switches the session role without re-login.
func (s *Session) SetRole(role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
}

func (s *Session) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Core exposes the state container to views; they never talk to the store
// directly.
func (s *Session) Core() *Core {
	return s.core
}
