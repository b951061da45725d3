package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Store struct {
	mock.Mock
}

func (m *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

type Fingerprinter struct {
	mock.Mock
}

func (m *Fingerprinter) Placeholder(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}
