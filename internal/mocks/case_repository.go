package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/repository"
)

type CaseRepository struct {
	mock.Mock
}

func (m *CaseRepository) CreateWithActivity(ctx context.Context, c *domain.Case, act *domain.CaseActivity) error {
	args := m.Called(ctx, c, act)
	return args.Error(0)
}

func (m *CaseRepository) Transition(ctx context.Context, caseID int64, fn repository.TransitionFunc) (*domain.Case, *domain.CaseActivity, error) {
	args := m.Called(ctx, caseID, fn)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Case), args.Get(1).(*domain.CaseActivity), args.Error(2)
}

func (m *CaseRepository) GetByID(ctx context.Context, id int64) (*domain.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *CaseRepository) ListByUser(ctx context.Context, kind domain.CaseKind, userID uuid.UUID) ([]domain.Case, error) {
	args := m.Called(ctx, kind, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *CaseRepository) List(ctx context.Context, filter domain.CaseFilter, params domain.PaginationParams) ([]domain.Case, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Case), args.Get(1).(int64), args.Error(2)
}

func (m *CaseRepository) Latest(ctx context.Context, kind domain.CaseKind, limit int) ([]domain.Case, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *CaseRepository) CountByDay(ctx context.Context, kind domain.CaseKind, day time.Time) (int64, error) {
	args := m.Called(ctx, kind, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CaseRepository) CountActivityPerDay(ctx context.Context, kind domain.CaseKind, from, to time.Time, assignedRoleType string) ([]domain.ActivityDayCount, error) {
	args := m.Called(ctx, kind, from, to, assignedRoleType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityDayCount), args.Error(1)
}

func (m *CaseRepository) CountInRange(ctx context.Context, kind domain.CaseKind, from, to time.Time, assignedRoleType string) (int64, error) {
	args := m.Called(ctx, kind, from, to, assignedRoleType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CaseRepository) CountByStatus(ctx context.Context, kind domain.CaseKind, status domain.Status, assignedRoleType string) (int64, error) {
	args := m.Called(ctx, kind, status, assignedRoleType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CaseRepository) Activities(ctx context.Context, caseID int64) ([]domain.CaseActivity, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CaseActivity), args.Error(1)
}

func (m *CaseRepository) Rate(ctx context.Context, caseID int64, userID uuid.UUID, score int, note *string) (*domain.Case, error) {
	args := m.Called(ctx, caseID, userID, score, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
