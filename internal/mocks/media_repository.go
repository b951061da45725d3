package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
)

type MediaRepository struct {
	mock.Mock
}

func (m *MediaRepository) Create(ctx context.Context, media *domain.CaseMedia) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MediaRepository) ListByOwner(ctx context.Context, kind domain.MediaOwnerKind, ownerID int64) ([]domain.CaseMedia, error) {
	args := m.Called(ctx, kind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CaseMedia), args.Error(1)
}
