package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
)

type SavedCaseRepository struct {
	mock.Mock
}

func (m *SavedCaseRepository) Save(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.SavedCase, error) {
	args := m.Called(ctx, userID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedCase), args.Error(1)
}

func (m *SavedCaseRepository) Unsave(ctx context.Context, userID uuid.UUID, caseID int64) error {
	args := m.Called(ctx, userID, caseID)
	return args.Error(0)
}

func (m *SavedCaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedCase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedCase), args.Error(1)
}

func (m *SavedCaseRepository) IsSaved(ctx context.Context, userID uuid.UUID, caseID int64) (bool, error) {
	args := m.Called(ctx, userID, caseID)
	return args.Bool(0), args.Error(1)
}
