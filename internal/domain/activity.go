package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseActivity is one immutable entry of a case's timeline. Exactly one row is
// written per status transition, the first one atomically with the case.
type CaseActivity struct {
	ID          int64     `json:"id" db:"id"`
	CaseID      int64     `json:"case_id" db:"case_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	StatusID    Status    `json:"status_id" db:"status_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Images []CaseMedia `json:"images,omitempty" db:"-"`
}

// TransitionAction names an officer- or owner-driven lifecycle move.
type TransitionAction string

const (
	ActionVerify   TransitionAction = "verify"
	ActionDecline  TransitionAction = "decline"
	ActionAssign   TransitionAction = "assign"
	ActionProcess  TransitionAction = "process"
	ActionPlan     TransitionAction = "plan"
	ActionComplete TransitionAction = "complete"
	ActionCancel   TransitionAction = "cancel"
)

// Target returns the status an action moves a case to.
func (a TransitionAction) Target() Status {
	switch a {
	case ActionVerify:
		return StatusVerification
	case ActionDecline:
		return StatusDeclined
	case ActionAssign, ActionProcess:
		return StatusProcess
	case ActionPlan:
		return StatusPlan
	case ActionComplete:
		return StatusComplete
	case ActionCancel:
		return StatusCanceled
	}
	return 0
}

// CanTransition validates the lifecycle state machine for one case kind.
// Terminal statuses reject every action; verify is only reachable from
// Waiting and Process; plan exists for suggestions only.
func CanTransition(kind CaseKind, from Status, action TransitionAction) error {
	if from.Terminal() {
		return NewForbiddenError("laporan sudah berstatus akhir")
	}

	switch action {
	case ActionVerify:
		if from != StatusWaiting && from != StatusProcess {
			return NewForbiddenError("laporan tidak dapat diverifikasi dari status saat ini")
		}
	case ActionPlan:
		if kind != KindSuggestion {
			return NewForbiddenError("hanya usulan yang dapat direncanakan")
		}
	case ActionDecline, ActionAssign, ActionProcess, ActionComplete, ActionCancel:
		// Allowed from any non-terminal status.
	default:
		return NewValidationError("aksi tidak dikenal")
	}
	return nil
}

type TransitionInput struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,min=4,max=120"`
}

type AssignInput struct {
	RoleID uuid.UUID `json:"role_id" validate:"required"`
	Notes  *string   `json:"notes,omitempty" validate:"omitempty,min=4,max=120"`
}
