package device_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/mocks"
	"lapor-warga/internal/service/device"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := new(mocks.DeviceRepository)
		svc := device.NewService(repo)

		repo.On("Register", ctx, mock.MatchedBy(func(d *domain.Device) bool {
			return d.UserID == userID && d.DeviceToken == "ExponentPushToken[abc]" && d.DeviceType == "android"
		})).Return(nil).Once()

		registered, err := svc.Register(ctx, userID, &domain.RegisterDeviceInput{
			DeviceToken: "  ExponentPushToken[abc]  ",
			DeviceType:  "android",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ExponentPushToken[abc]", registered.DeviceToken)
		repo.AssertExpectations(t)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		svc := device.NewService(new(mocks.DeviceRepository))

		_, err := svc.Register(ctx, userID, &domain.RegisterDeviceInput{DeviceToken: "   "})

		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	deviceID := uuid.New()

	t.Run("OwnDevice", func(t *testing.T) {
		repo := new(mocks.DeviceRepository)
		svc := device.NewService(repo)

		repo.On("ListByUser", ctx, userID).
			Return([]domain.Device{{ID: deviceID, UserID: userID}}, nil).Once()
		repo.On("Delete", ctx, deviceID).Return(nil).Once()

		assert.NoError(t, svc.Remove(ctx, deviceID, userID))
		repo.AssertExpectations(t)
	})

	t.Run("SomeoneElsesDevice", func(t *testing.T) {
		repo := new(mocks.DeviceRepository)
		svc := device.NewService(repo)

		repo.On("ListByUser", ctx, userID).Return([]domain.Device{}, nil).Once()

		err := svc.Remove(ctx, deviceID, userID)

		assert.True(t, domain.IsKind(err, domain.KindNotFound))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
