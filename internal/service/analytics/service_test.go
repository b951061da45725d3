package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/mocks"
)

func fixedService(now time.Time) (*service, *mocks.CaseRepository, *mocks.VerificationRepository, *mocks.UserRepository) {
	caseRepo := new(mocks.CaseRepository)
	verifRepo := new(mocks.VerificationRepository)
	userRepo := new(mocks.UserRepository)
	s := &service{
		caseRepo:  caseRepo,
		verifRepo: verifRepo,
		userRepo:  userRepo,
		now:       func() time.Time { return now },
	}
	return s, caseRepo, verifRepo, userRepo
}

func authorizer() domain.ActingUser {
	return domain.ActingUser{RoleType: domain.RoleAuthorizer, RoleName: "Petugas Otorisasi"}
}

func TestCasesPerDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("FillsEveryDayOfTheMonth", func(t *testing.T) {
		s, caseRepo, _, _ := fixedService(now)

		caseRepo.On("CountActivityPerDay", mock.Anything, domain.KindComplaint,
			monthStart, monthStart.AddDate(0, 1, 0), "").
			Return([]domain.ActivityDayCount{
				{Day: monthStart.AddDate(0, 0, 1), StatusID: domain.StatusWaiting, Count: 3},
				{Day: monthStart.AddDate(0, 0, 1), StatusID: domain.StatusComplete, Count: 1},
				{Day: monthStart.AddDate(0, 0, 30), StatusID: domain.StatusComplete, Count: 2},
				{Day: monthStart, StatusID: domain.StatusProcess, Count: 9},
			}, nil)

		stats, err := s.CasesPerDay(context.Background(), authorizer(), domain.KindComplaint)

		assert.NoError(t, err)
		assert.Len(t, stats, 31)
		assert.Equal(t, "1 Maret", stats[0].Date)
		assert.Zero(t, stats[0].New, "process activities not charted")
		assert.Equal(t, int64(3), stats[1].New)
		assert.Equal(t, int64(1), stats[1].Complete)
		assert.Equal(t, int64(2), stats[30].Complete)
		assert.Zero(t, stats[15].New)
	})

	t.Run("TechnicalExecutorScoped", func(t *testing.T) {
		s, caseRepo, _, _ := fixedService(now)

		caseRepo.On("CountActivityPerDay", mock.Anything, domain.KindComplaint,
			mock.Anything, mock.Anything, domain.RoleTechnicalExecutor).
			Return([]domain.ActivityDayCount{}, nil)

		executor := domain.ActingUser{RoleType: domain.RoleTechnicalExecutor}
		_, err := s.CasesPerDay(context.Background(), executor, domain.KindComplaint)

		assert.NoError(t, err)
		caseRepo.AssertExpectations(t)
	})
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	s, caseRepo, verifRepo, userRepo := fixedService(now)

	caseRepo.On("CountInRange", mock.Anything, domain.KindComplaint,
		monthStart, monthStart.AddDate(0, 1, 0), "").Return(int64(12), nil)
	caseRepo.On("CountInRange", mock.Anything, domain.KindComplaint,
		dayStart, dayStart.AddDate(0, 0, 1), "").Return(int64(4), nil)
	caseRepo.On("CountByStatus", mock.Anything, domain.KindComplaint,
		domain.StatusWaiting, "").Return(int64(5), nil)
	verifRepo.On("CountByStatus", mock.Anything, domain.StatusWaiting).Return(int64(2), nil)
	userRepo.On("Count", mock.Anything).Return(int64(100), nil)

	dashboard, err := s.Dashboard(context.Background(), authorizer(), domain.KindComplaint)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), dashboard.CasesInMonth)
	assert.Equal(t, int64(4), dashboard.CasesToday)
	assert.Equal(t, int64(5), dashboard.CasesWaiting)
	assert.Equal(t, int64(2), dashboard.VerificationWaiting)
	assert.Equal(t, int64(100), dashboard.Users)
	caseRepo.AssertExpectations(t)
}
