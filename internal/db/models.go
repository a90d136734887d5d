package db

import (
	"time"

	"github.com/google/uuid"
)

// Session is a browser session of the web editor.
type Session struct {
	ID        uuid.UUID
	UserID    string // last X-User-Id entered, may be empty
	CreatedAt time.Time
	ExpiresAt time.Time
}
