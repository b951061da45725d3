package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedCase is a user's bookmark on a case; unique per (user, case) pair.
type SavedCase struct {
	ID        int64     `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CaseID    int64     `json:"case_id" db:"case_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Case *Case `json:"case,omitempty" db:"-"`
}
