package model

import (
	"time"

	"github.com/google/uuid"
)

// Session holds the server-side state for an authenticated web session.
// Sessions live in a small fixed-capacity table and are never persisted;
// a reboot logs everybody out.
type Session struct {
	ID        uuid.UUID
	Token     string
	CreatedAt time.Time
	LastSeen  time.Time
}
