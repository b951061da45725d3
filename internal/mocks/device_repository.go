package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
)

type DeviceRepository struct {
	mock.Mock
}

func (m *DeviceRepository) Register(ctx context.Context, device *domain.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *DeviceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Device, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Device), args.Error(1)
}

func (m *DeviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
