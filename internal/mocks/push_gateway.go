package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/push"
)

type PushGateway struct {
	mock.Mock
}

func (m *PushGateway) Send(ctx context.Context, msg push.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
