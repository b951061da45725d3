package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
)

type VerificationRepository struct {
	mock.Mock
}

func (m *VerificationRepository) CreateWithLog(ctx context.Context, req *domain.VerificationRequest, logEntry *domain.VerificationLog, sealedIDNumber string) error {
	args := m.Called(ctx, req, logEntry, sealedIDNumber)
	return args.Error(0)
}

func (m *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}

func (m *VerificationRepository) SealedIdentityNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *VerificationRepository) Decide(ctx context.Context, id uuid.UUID, status domain.Status, logEntry *domain.VerificationLog) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, id, status, logEntry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}

func (m *VerificationRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *VerificationRepository) Logs(ctx context.Context, requestID uuid.UUID) ([]domain.VerificationLog, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VerificationLog), args.Error(1)
}
