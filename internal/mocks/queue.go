package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Queue struct {
	mock.Mock
}

func (m *Queue) Enqueue(ctx context.Context, stream string, payload interface{}) error {
	args := m.Called(ctx, stream, payload)
	return args.Error(0)
}
