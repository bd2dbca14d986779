package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is the completed (name, email) pair collected from a sender.
// It is handed off to the notifiers once and then discarded; nothing
// in this process keeps it afterwards.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Platform   Platform  `json:"platform"`
	SenderID   string    `json:"sender_id"`
	CapturedAt time.Time `json:"captured_at"`
}

func NewLead(s Session) Lead {
	return Lead{
		ID:         uuid.New().String(),
		Name:       s.Name,
		Email:      s.Email,
		Platform:   s.Platform,
		SenderID:   s.SenderID,
		CapturedAt: time.Now(),
	}
}
