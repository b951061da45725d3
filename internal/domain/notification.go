package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the persisted record of a push message, written by the
// fan-out worker after the gateway accepted the send.
type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	Route     *string    `json:"route,omitempty" db:"route"`
	Param     *string    `json:"param,omitempty" db:"param"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
