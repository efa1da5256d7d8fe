// Package docs gates the API documentation behind a lightweight cookie
// session and serves the Swagger UI plus the OpenAPI document.
package docs

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultSessionTTL is how long a docs login stays valid.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore keeps opaque docs-session tokens with their expiry.  It is
// owned by the server wiring and guarded by a mutex; expired or unknown
// tokens are evicted lazily when a check fails, there is no background
// sweeper.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration

	now func() time.Time // injectable clock for tests
}

// NewSessionStore builds an empty store.  A non-positive ttl falls back to
// DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints a random opaque token and registers it with the configured
// TTL.
func (s *SessionStore) Create() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return token, nil
}

// Valid reports whether token identifies a live session.  Expired tokens are
// deleted on the way out.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(exp) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Delete removes a session, if present.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of live entries.  Test and metrics helper.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
