package entity

import (
	"strings"
	"time"
)

// Platform identifies which messaging product delivered an event.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformMessenger Platform = "messenger"
)

type Stage string

const (
	StageAwaitingName  Stage = "AWAITING_NAME"
	StageAwaitingEmail Stage = "AWAITING_EMAIL"
	StageDone          Stage = "DONE"
)

// Session tracks one sender's progress through the registration script.
// The stage only moves forward; a session ends on completion or after
// the inactivity TTL.
type Session struct {
	SenderID     string    `json:"sender_id"`
	Platform     Platform  `json:"platform"`
	Stage        Stage     `json:"stage"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	LastActivity time.Time `json:"last_activity"`
}

func NewSession(senderID string, platform Platform) *Session {
	return &Session{
		SenderID:     senderID,
		Platform:     platform,
		Stage:        StageAwaitingName,
		LastActivity: time.Now(),
	}
}

func (s *Session) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.LastActivity) > ttl
}

// ValidName accepts any non-empty string.
func ValidName(text string) bool {
	return strings.TrimSpace(text) != ""
}

// ValidEmail only requires an "@"; the sheet owner cleans up the rest.
func ValidEmail(text string) bool {
	return strings.Contains(text, "@") && strings.TrimSpace(text) != ""
}

// SessionRepositoryInterface is the contract between the conversation
// flow and the session storage. The only implementation is in-memory.
type SessionRepositoryInterface interface {
	GetOrCreate(senderID string, platform Platform) Session
	Find(senderID string) (Session, bool)
	Advance(senderID, text string) (Session, bool)
	Complete(senderID string)
	Sweep() int
	Count() int
}
