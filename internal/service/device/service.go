// Package device manages the push tokens a user registered from their phones.
package device

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/repository"
)

type Service interface {
	Register(ctx context.Context, userID uuid.UUID, input *domain.RegisterDeviceInput) (*domain.Device, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Device, error)
	Remove(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	deviceRepo repository.DeviceRepository
}

func NewService(deviceRepo repository.DeviceRepository) Service {
	return &service{deviceRepo: deviceRepo}
}

func (s *service) Register(ctx context.Context, userID uuid.UUID, input *domain.RegisterDeviceInput) (*domain.Device, error) {
	token := strings.TrimSpace(input.DeviceToken)
	if token == "" {
		return nil, domain.NewValidationError("device token wajib diisi")
	}

	device := &domain.Device{
		ID:          uuid.New(),
		UserID:      userID,
		DeviceToken: token,
		DeviceType:  input.DeviceType,
	}
	if err := s.deviceRepo.Register(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]domain.Device, error) {
	return s.deviceRepo.ListByUser(ctx, userID)
}

func (s *service) Remove(ctx context.Context, id, userID uuid.UUID) error {
	devices, err := s.deviceRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, d := range devices {
		if d.ID == id {
			return s.deviceRepo.Delete(ctx, id)
		}
	}
	return domain.NewNotFoundError("perangkat tidak ditemukan")
}
