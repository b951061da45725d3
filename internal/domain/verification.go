package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRequest is the identity-verification case: a simpler lifecycle
// (Waiting -> Complete | Declined) reusing the same status/audit-log pattern.
type VerificationRequest struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	StatusID  Status    `json:"status_id" db:"status_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Logs []VerificationLog `json:"logs,omitempty" db:"-"`
	User *User             `json:"user,omitempty" db:"-"`

	// IdentityNumber is decrypted on read for authorized viewers only.
	IdentityNumber string `json:"identity_number,omitempty" db:"-"`
}

type VerificationLog struct {
	ID        int64     `json:"id" db:"id"`
	RequestID uuid.UUID `json:"request_id" db:"request_id"`
	StatusID  Status    `json:"status_id" db:"status_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type VerificationRequestInput struct {
	IDNumber string `json:"id_number" validate:"required,len=16"`
}

type VerificationDecisionInput struct {
	Status  Status `json:"status" validate:"required"`
	Content string `json:"content" validate:"required,max=500"`
}
