package memory

import (
	"sync"
	"time"

	"github.com/bashoori/instagram-bot/internal/entity"
)

// SessionStore keeps every active conversation in a map guarded by one
// mutex. Sessions expire after ttl of inactivity; expired entries are
// removed opportunistically before each lookup and by a background
// ticker, both under the same lock.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	ttl      time.Duration

	// now is swappable so tests can age sessions without sleeping.
	now func() time.Time
}

func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*entity.Session),
		ttl:      ttl,
		now:      time.Now,
	}

	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

// GetOrCreate returns the sender's session, creating one in
// AWAITING_NAME if absent or expired.
func (s *SessionStore) GetOrCreate(senderID string, platform entity.Platform) entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess, ok := s.sessions[senderID]
	if !ok {
		sess = entity.NewSession(senderID, platform)
		sess.LastActivity = s.now()
		s.sessions[senderID] = sess
	}
	return *sess
}

func (s *SessionStore) Find(senderID string) (entity.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess, ok := s.sessions[senderID]
	if !ok {
		return entity.Session{}, false
	}
	return *sess, true
}

// Advance consumes one inbound message. Invalid input for the current
// stage leaves the stage unchanged and reports advanced=false so the
// caller can re-prompt. The lock is held across the whole
// read-modify-write, so two rapid messages from the same sender
// serialize and each consumes at most one transition.
func (s *SessionStore) Advance(senderID, text string) (entity.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess, ok := s.sessions[senderID]
	if !ok {
		return entity.Session{}, false
	}
	sess.LastActivity = s.now()

	switch sess.Stage {
	case entity.StageAwaitingName:
		if !entity.ValidName(text) {
			return *sess, false
		}
		sess.Name = text
		sess.Stage = entity.StageAwaitingEmail
		return *sess, true

	case entity.StageAwaitingEmail:
		if !entity.ValidEmail(text) {
			return *sess, false
		}
		sess.Email = text
		sess.Stage = entity.StageDone
		return *sess, true
	}

	return *sess, false
}

// Complete removes a finished session.
func (s *SessionStore) Complete(senderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, senderID)
}

// Sweep deletes sessions idle longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked() int {
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(s.ttl, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.Sweep()
	}
}
