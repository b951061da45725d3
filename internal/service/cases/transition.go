package cases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lapor-warga/internal/domain"
)

func (s *service) Transition(ctx context.Context, caseID int64, action domain.TransitionAction, actor domain.ActingUser, notes *string, assignRoleID *uuid.UUID, images []domain.ImageUpload) (*domain.CaseActivity, error) {
	if action == domain.ActionCancel {
		return nil, domain.NewValidationError("gunakan endpoint pembatalan")
	}
	if !actor.IsOfficer() {
		return nil, domain.NewForbiddenError("anda tidak memiliki akses untuk merubah status")
	}

	// The assignee's display name goes into the activity and the push copy;
	// resolve it before entering the transaction.
	var assignee *domain.Role
	if action == domain.ActionAssign {
		if assignRoleID == nil {
			return nil, domain.NewValidationError("role tujuan harus diisi")
		}
		role, err := s.userRepo.GetRoleByID(ctx, *assignRoleID)
		if err != nil {
			return nil, err
		}
		assignee = role
	}

	c, act, err := s.caseRepo.Transition(ctx, caseID, func(c *domain.Case) (*domain.CaseActivity, error) {
		if err := domain.CanTransition(c.Kind, c.StatusID, action); err != nil {
			return nil, err
		}

		c.StatusID = action.Target()
		switch action {
		case domain.ActionVerify:
			c.IsVerified = true
		case domain.ActionAssign:
			c.AssignedRoleID = assignRoleID
		}

		return &domain.CaseActivity{
			Title:       c.StatusID.Title(),
			Description: activityDescription(c.Kind, action, actor.RoleName, assignee),
			Notes:       notes,
			StatusID:    c.StatusID,
			UserID:      actor.ID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects only.
	s.enqueueMedia(ctx, domain.MediaOwnerActivity, act.ID, fmt.Sprintf("%d_%s_image", c.ID, act.Title), images)
	s.fanOutStatusChange(ctx, c, action, actor, assignee)

	return act, nil
}

func (s *service) Cancel(ctx context.Context, caseID int64, actor domain.ActingUser) (*domain.Case, error) {
	c, _, err := s.caseRepo.Transition(ctx, caseID, func(c *domain.Case) (*domain.CaseActivity, error) {
		if c.UserID != actor.ID {
			return nil, domain.NewForbiddenError("anda tidak memiliki akses untuk merubah status")
		}
		if err := domain.CanTransition(c.Kind, c.StatusID, domain.ActionCancel); err != nil {
			return nil, err
		}

		c.StatusID = domain.StatusCanceled
		return &domain.CaseActivity{
			Title:       domain.StatusCanceled.Title(),
			Description: fmt.Sprintf("%s dibatalkan oleh pengguna", noun(c.Kind)),
			StatusID:    domain.StatusCanceled,
			UserID:      actor.ID,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Activity titles come from the status; descriptions name who acted.
func activityDescription(kind domain.CaseKind, action domain.TransitionAction, roleName string, assignee *domain.Role) string {
	n := noun(kind)
	switch action {
	case domain.ActionVerify:
		return fmt.Sprintf("%s telah diverifikasi oleh %s", n, roleName)
	case domain.ActionDecline:
		return fmt.Sprintf("%s ditolak oleh %s", n, roleName)
	case domain.ActionAssign:
		return fmt.Sprintf("%s diteruskan kepada %s", n, assignee.Name)
	case domain.ActionProcess:
		return fmt.Sprintf("%s sedang ditindaklanjuti oleh %s", n, roleName)
	case domain.ActionPlan:
		return fmt.Sprintf("%s masuk dalam perencanaan oleh %s", n, roleName)
	case domain.ActionComplete:
		return fmt.Sprintf("%s selesai ditindaklanjuti oleh %s", n, roleName)
	}
	return ""
}
