package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bashoori/instagram-bot/internal/entity"
)

func TestGetOrCreateStartsAwaitingName(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)

	sess := store.GetOrCreate("ig:123", entity.PlatformInstagram)

	assert.Equal(t, entity.StageAwaitingName, sess.Stage)
	assert.Equal(t, "ig:123", sess.SenderID)
	assert.Equal(t, entity.PlatformInstagram, sess.Platform)
	assert.Equal(t, 1, store.Count())
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)

	store.GetOrCreate("ig:123", entity.PlatformInstagram)
	store.Advance("ig:123", "Sara")

	// A second GetOrCreate must return the existing session untouched.
	sess := store.GetOrCreate("ig:123", entity.PlatformInstagram)

	assert.Equal(t, entity.StageAwaitingEmail, sess.Stage)
	assert.Equal(t, "Sara", sess.Name)
	assert.Equal(t, 1, store.Count())
}

func TestAdvanceStoresNameVerbatim(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)
	store.GetOrCreate("ig:123", entity.PlatformInstagram)

	sess, advanced := store.Advance("ig:123", "Sara")

	assert.True(t, advanced)
	assert.Equal(t, entity.StageAwaitingEmail, sess.Stage)
	assert.Equal(t, "Sara", sess.Name)
}

func TestAdvanceRejectsEmptyName(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)
	store.GetOrCreate("ig:123", entity.PlatformInstagram)

	sess, advanced := store.Advance("ig:123", "   ")

	assert.False(t, advanced)
	assert.Equal(t, entity.StageAwaitingName, sess.Stage)
}

func TestAdvanceRejectsEmailWithoutAt(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)
	store.GetOrCreate("ig:123", entity.PlatformInstagram)
	store.Advance("ig:123", "Sara")

	sess, advanced := store.Advance("ig:123", "not-an-email")

	assert.False(t, advanced)
	assert.Equal(t, entity.StageAwaitingEmail, sess.Stage)
	assert.Empty(t, sess.Email)
}

func TestAdvanceCompletesOnValidEmail(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)
	store.GetOrCreate("ig:123", entity.PlatformInstagram)
	store.Advance("ig:123", "Sara")

	sess, advanced := store.Advance("ig:123", "sara@example.com")

	assert.True(t, advanced)
	assert.Equal(t, entity.StageDone, sess.Stage)
	assert.Equal(t, "Sara", sess.Name)
	assert.Equal(t, "sara@example.com", sess.Email)
}

func TestAdvanceUnknownSender(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)

	_, advanced := store.Advance("ghost", "Sara")

	assert.False(t, advanced)
}

func TestCompleteRemovesSession(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)
	store.GetOrCreate("ig:123", entity.PlatformInstagram)

	store.Complete("ig:123")

	_, ok := store.Find("ig:123")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.GetOrCreate("ig:old", entity.PlatformInstagram)
	store.GetOrCreate("fb:fresh", entity.PlatformMessenger)

	// Age only the instagram session past the TTL.
	store.now = func() time.Time { return now.Add(11 * time.Minute) }
	store.mu.Lock()
	store.sessions["fb:fresh"].LastActivity = now.Add(11 * time.Minute)
	store.mu.Unlock()

	removed := store.Sweep()

	assert.Equal(t, 1, removed)
	_, ok := store.Find("ig:old")
	assert.False(t, ok)
	_, ok = store.Find("fb:fresh")
	assert.True(t, ok)
}

func TestExpiredSessionRestartsFresh(t *testing.T) {
	store := NewSessionStore(10*time.Minute, 0)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.GetOrCreate("ig:123", entity.PlatformInstagram)
	store.Advance("ig:123", "Sara")

	// The next message arrives 11 minutes later: opportunistic sweep
	// inside the lookup must have dropped the old session.
	store.now = func() time.Time { return now.Add(11 * time.Minute) }

	_, ok := store.Find("ig:123")
	assert.False(t, ok)

	sess := store.GetOrCreate("ig:123", entity.PlatformInstagram)
	assert.Equal(t, entity.StageAwaitingName, sess.Stage)
	assert.Empty(t, sess.Name)
}
