package serline

import (
	"time"

	"github.com/google/uuid"
)

// Session is a snapshot of one conversation, suitable for persistence.
type Session struct {
	ID        string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates an empty Session with a fresh ID.
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
