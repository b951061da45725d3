package cases

import (
	"context"
	"fmt"
	"strconv"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/queue"
)

// Deep-link routes the mobile app registers for each kind's detail screen.
func detailRoute(kind domain.CaseKind) string {
	if kind == domain.KindSuggestion {
		return "SuggestionDetail"
	}
	return "ComplaintDetail"
}

func pushTitle(kind domain.CaseKind, action domain.TransitionAction) string {
	n := noun(kind) + "mu"
	switch action {
	case domain.ActionVerify:
		return n + " Diverifikasi!"
	case domain.ActionDecline:
		return n + " Ditolak!"
	case domain.ActionAssign:
		return n + " Diteruskan!"
	case domain.ActionProcess:
		return n + " Ditindaklanjuti!"
	case domain.ActionPlan:
		return n + " Direncanakan!"
	case domain.ActionComplete:
		return n + " Selesai!"
	}
	return n
}

func pushBody(c *domain.Case, action domain.TransitionAction, firstName, roleName string, assignee *domain.Role) string {
	prefix := fmt.Sprintf("Hai %s! %smu #%s", firstName, noun(c.Kind), c.RefID)
	switch action {
	case domain.ActionVerify:
		return fmt.Sprintf("%s telah diverifikasi oleh %s.", prefix, roleName)
	case domain.ActionDecline:
		return fmt.Sprintf("%s ditolak oleh %s.", prefix, roleName)
	case domain.ActionAssign:
		return fmt.Sprintf("%s diteruskan kepada %s.", prefix, assignee.Name)
	case domain.ActionProcess:
		return fmt.Sprintf("%s sedang ditindaklanjuti oleh %s.", prefix, roleName)
	case domain.ActionPlan:
		return fmt.Sprintf("%s masuk dalam perencanaan.", prefix)
	case domain.ActionComplete:
		return fmt.Sprintf("%s telah diselesaikan oleh %s.", prefix, roleName)
	}
	return prefix
}

// fanOutStatusChange enqueues one notification job per device the case owner
// has registered. Best-effort: the transition has committed, a failed enqueue
// only costs that device its push.
func (s *service) fanOutStatusChange(ctx context.Context, c *domain.Case, action domain.TransitionAction, actor domain.ActingUser, assignee *domain.Role) {
	owner, err := s.userRepo.GetByID(ctx, c.UserID)
	if err != nil {
		s.log.Error().Err(err).Int64("case_id", c.ID).Msg("fan-out: owner lookup failed")
		return
	}

	devices, err := s.deviceRepo.ListByUser(ctx, owner.ID)
	if err != nil {
		s.log.Error().Err(err).Int64("case_id", c.ID).Msg("fan-out: device lookup failed")
		return
	}

	title := pushTitle(c.Kind, action)
	body := pushBody(c, action, owner.FirstName, actor.RoleName, assignee)

	for _, device := range devices {
		job := queue.NotifyStatusChangeJob{
			UserID:      device.UserID,
			DeviceToken: device.DeviceToken,
			DeviceID:    device.ID,
			Route:       detailRoute(c.Kind),
			Param:       strconv.FormatInt(c.ID, 10),
			Title:       title,
			Body:        body,
		}
		if err := s.jobs.Enqueue(ctx, queue.StreamNotify, job); err != nil {
			s.log.Error().Err(err).
				Int64("case_id", c.ID).
				Str("device_id", device.ID.String()).
				Msg("fan-out: enqueue failed")
		}
	}
}
