package worker_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/mocks"
	"lapor-warga/internal/push"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/worker"
)

func notifyPayload(t *testing.T, job queue.NotifyStatusChangeJob) []byte {
	t.Helper()
	payload, err := json.Marshal(job)
	assert.NoError(t, err)
	return payload
}

func TestNotificationWorker_Handle(t *testing.T) {
	ctx := context.Background()

	job := queue.NotifyStatusChangeJob{
		UserID:      uuid.New(),
		DeviceToken: "ExponentPushToken[abc]",
		DeviceID:    uuid.New(),
		Route:       "ComplaintDetail",
		Param:       "21",
		Title:       "Laporanmu Diverifikasi!",
		Body:        "Hai Budi! Laporanmu #DC-CP-240115-00001 telah diverifikasi oleh Petugas Otorisasi.",
	}

	t.Run("SuccessPersistsNotification", func(t *testing.T) {
		gateway := new(mocks.PushGateway)
		deviceRepo := new(mocks.DeviceRepository)
		notifRepo := new(mocks.NotificationRepository)
		w := worker.NewNotificationWorker(gateway, deviceRepo, notifRepo, zerolog.Nop())

		gateway.On("Send", ctx, mock.MatchedBy(func(msg push.Message) bool {
			return msg.To == job.DeviceToken && msg.Title == job.Title &&
				msg.ChannelID == "default" && msg.Priority == "high" &&
				msg.Data["route"] == "ComplaintDetail" && msg.Data["param"] == "21"
		})).Return(nil).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == job.UserID && n.Title == job.Title && n.Content == job.Body &&
				n.Route != nil && *n.Route == "ComplaintDetail"
		})).Return(nil).Once()

		err := w.Handle(ctx, notifyPayload(t, job))

		assert.NoError(t, err)
		gateway.AssertExpectations(t)
		notifRepo.AssertExpectations(t)
		deviceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("UnregisteredDeviceDeleted", func(t *testing.T) {
		gateway := new(mocks.PushGateway)
		deviceRepo := new(mocks.DeviceRepository)
		notifRepo := new(mocks.NotificationRepository)
		w := worker.NewNotificationWorker(gateway, deviceRepo, notifRepo, zerolog.Nop())

		gateway.On("Send", ctx, mock.Anything).Return(push.ErrDeviceNotRegistered).Once()
		deviceRepo.On("Delete", ctx, job.DeviceID).Return(nil).Once()

		err := w.Handle(ctx, notifyPayload(t, job))

		// Acknowledged: a dead token never succeeds on retry.
		assert.NoError(t, err)
		deviceRepo.AssertExpectations(t)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("TransientFailureRetried", func(t *testing.T) {
		gateway := new(mocks.PushGateway)
		deviceRepo := new(mocks.DeviceRepository)
		notifRepo := new(mocks.NotificationRepository)
		w := worker.NewNotificationWorker(gateway, deviceRepo, notifRepo, zerolog.Nop())

		gateway.On("Send", ctx, mock.Anything).Return(assert.AnError).Once()

		err := w.Handle(ctx, notifyPayload(t, job))

		assert.True(t, domain.IsKind(err, domain.KindDependency))
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		deviceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("InsertFailureDoesNotDoubleSend", func(t *testing.T) {
		gateway := new(mocks.PushGateway)
		deviceRepo := new(mocks.DeviceRepository)
		notifRepo := new(mocks.NotificationRepository)
		w := worker.NewNotificationWorker(gateway, deviceRepo, notifRepo, zerolog.Nop())

		gateway.On("Send", ctx, mock.Anything).Return(nil).Once()
		notifRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		err := w.Handle(ctx, notifyPayload(t, job))

		// The push already left; retrying would deliver it twice.
		assert.NoError(t, err)
	})
}
