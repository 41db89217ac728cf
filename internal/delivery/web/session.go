package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/usecase"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// session is the per-browser UI state: the staged bulk edit and the page
// history.
type session struct {
	ID  string
	Nav *usecase.Navigator

	mu       sync.Mutex
	bulk     entity.BulkEditState
	lastSeen time.Time
}

// withBulk runs fn with exclusive access to the bulk edit state.
func (s *session) withBulk(fn func(state *entity.BulkEditState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.bulk)
}

// Bulk returns a copy of the bulk edit state.
func (s *session) Bulk() entity.BulkEditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.bulk
	cp.Selected = append([]string(nil), s.bulk.Selected...)
	return cp
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	revoked  map[string]time.Time // logged-out IDs until their token expires
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		revoked:  make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// create opens a fresh session.
func (s *sessionStore) create() *session {
	sess := &session{ID: uuid.NewString(), Nav: usecase.NewNavigator(), lastSeen: s.now()}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// get returns the session and refreshes its idle timer. A session that
// expired but was not swept yet is treated as missing.
func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *sessionStore) getLocked(id string) (*session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// getOrCreate restores a session by ID or opens a new one under the same ID,
// so a valid token survives a server restart. Revoked IDs are refused.
func (s *sessionStore) getOrCreate(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.revoked[id]; ok {
		return nil, false
	}
	if sess, ok := s.getLocked(id); ok {
		return sess, true
	}
	sess := &session{ID: id, Nav: usecase.NewNavigator(), lastSeen: s.now()}
	s.sessions[id] = sess
	return sess, true
}

// revoke drops the session and refuses its ID until the token behind it
// expires.
func (s *sessionStore) revoke(id string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	s.revoked[id] = until
}

func (s *sessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	return removed
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// cleanupLoop periodically drops idle sessions until ctx is done.
func (s *sessionStore) cleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logger.Infof("🧹 Removed %d idle sessions", n)
			}
		}
	}
}
