// Package session holds the signed-in user and the short-lived entity
// handoff cache. All of it is in memory and cleared on logout.
package session

import (
	"sync"
	"time"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/log"
)

// Store is the client-held session state.
type Store struct {
	mu         sync.RWMutex
	token      string
	user       api.User
	signedInAt time.Time
	handoff    *Handoff
}

// NewStore creates an empty store. handoff may be nil.
func NewStore(handoff *Handoff) *Store {
	return &Store{handoff: handoff}
}

// SignIn records a successful login.
func (s *Store) SignIn(resp *api.LoginResponse) {
	if resp == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = resp.Token
	s.user = resp.User
	s.signedInAt = time.Now()
	log.Info("signed in", "user", resp.User.Email, "role", string(resp.User.Role))
}

// Token is the bearer token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

func (s *Store) Role() api.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Role
}

func (s *Store) SignedIn() bool {
	return s.Token() != ""
}

func (s *Store) SignedInAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signedInAt
}

// Handoff returns the entity handoff cache attached to the store.
func (s *Store) Handoff() *Handoff { return s.handoff }

// Clear drops the token, the user and every cached handoff entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = api.User{}
	s.signedInAt = time.Time{}
	s.mu.Unlock()

	if s.handoff != nil {
		s.handoff.Purge()
	}
	log.Info("session cleared")
}
