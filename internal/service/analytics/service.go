// Package analytics serves the officer dashboard: the per-day chart of new
// and completed cases for the current month, and the KPI tiles.
package analytics

import (
	"context"
	"time"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/repository"
)

type Service interface {
	// CasesPerDay returns one entry per calendar day of the current month,
	// zero-filled, counting Waiting activities as new and Complete as done.
	CasesPerDay(ctx context.Context, actor domain.ActingUser, kind domain.CaseKind) ([]domain.DailyCaseStats, error)
	Dashboard(ctx context.Context, actor domain.ActingUser, kind domain.CaseKind) (*domain.CaseDashboard, error)
}

type service struct {
	caseRepo  repository.CaseRepository
	verifRepo repository.VerificationRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

func NewService(caseRepo repository.CaseRepository, verifRepo repository.VerificationRepository, userRepo repository.UserRepository) Service {
	return &service{
		caseRepo:  caseRepo,
		verifRepo: verifRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// roleScope mirrors the list scoping: technical executors only see their own
// queue, everyone else sees everything.
func roleScope(actor domain.ActingUser) string {
	if actor.RoleType == domain.RoleTechnicalExecutor {
		return domain.RoleTechnicalExecutor
	}
	return ""
}

func monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

func (s *service) CasesPerDay(ctx context.Context, actor domain.ActingUser, kind domain.CaseKind) ([]domain.DailyCaseStats, error) {
	now := s.now()
	from, to := monthWindow(now)

	counts, err := s.caseRepo.CountActivityPerDay(ctx, kind, from, to, roleScope(actor))
	if err != nil {
		return nil, err
	}

	daysInMonth := to.AddDate(0, 0, -1).Day()
	stats := make([]domain.DailyCaseStats, daysInMonth)
	for i := range stats {
		stats[i].Date = domain.IndonesianDate(from.AddDate(0, 0, i))
	}

	for _, c := range counts {
		i := c.Day.Day() - 1
		if i < 0 || i >= daysInMonth {
			continue
		}
		switch c.StatusID {
		case domain.StatusComplete:
			stats[i].Complete += c.Count
		case domain.StatusWaiting:
			stats[i].New += c.Count
		}
	}
	return stats, nil
}

func (s *service) Dashboard(ctx context.Context, actor domain.ActingUser, kind domain.CaseKind) (*domain.CaseDashboard, error) {
	now := s.now()
	scope := roleScope(actor)
	monthFrom, monthTo := monthWindow(now)
	dayFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	inMonth, err := s.caseRepo.CountInRange(ctx, kind, monthFrom, monthTo, scope)
	if err != nil {
		return nil, err
	}
	today, err := s.caseRepo.CountInRange(ctx, kind, dayFrom, dayFrom.AddDate(0, 0, 1), scope)
	if err != nil {
		return nil, err
	}
	waiting, err := s.caseRepo.CountByStatus(ctx, kind, domain.StatusWaiting, scope)
	if err != nil {
		return nil, err
	}
	verifWaiting, err := s.verifRepo.CountByStatus(ctx, domain.StatusWaiting)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.CaseDashboard{
		CasesInMonth:        inMonth,
		CasesToday:          today,
		CasesWaiting:        waiting,
		VerificationWaiting: verifWaiting,
		Users:               users,
	}, nil
}
