package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendVerificationApproved(ctx context.Context, toEmail, fullName string) error {
	args := m.Called(ctx, toEmail, fullName)
	return args.Error(0)
}

func (m *EmailService) SendVerificationDeclined(ctx context.Context, toEmail, fullName, reason string) error {
	args := m.Called(ctx, toEmail, fullName, reason)
	return args.Error(0)
}
