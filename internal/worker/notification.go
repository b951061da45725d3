package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/metrics"
	"lapor-warga/internal/push"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/repository"
)

// NotificationWorker delivers one push message to one device. Sibling jobs
// for the same user's other devices are independent entries; one device
// failing never touches the others.
type NotificationWorker struct {
	gateway    push.Gateway
	deviceRepo repository.DeviceRepository
	notifRepo  repository.NotificationRepository
	log        zerolog.Logger
}

func NewNotificationWorker(gateway push.Gateway, deviceRepo repository.DeviceRepository, notifRepo repository.NotificationRepository, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		gateway:    gateway,
		deviceRepo: deviceRepo,
		notifRepo:  notifRepo,
		log:        log.With().Str("worker", "notification").Logger(),
	}
}

func (w *NotificationWorker) Handle(ctx context.Context, payload []byte) error {
	var job queue.NotifyStatusChangeJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode notification job: %w", err)
	}

	msg := push.Message{
		To:        job.DeviceToken,
		Title:     job.Title,
		Body:      job.Body,
		ChannelID: "default",
		Priority:  "high",
		Data: map[string]interface{}{
			"route": job.Route,
			"param": job.Param,
		},
	}

	err := w.gateway.Send(ctx, msg)
	if errors.Is(err, push.ErrDeviceNotRegistered) {
		metrics.PushSends.WithLabelValues("unregistered").Inc()
		// Prune the dead registration; no notification row for this device.
		if derr := w.deviceRepo.Delete(ctx, job.DeviceID); derr != nil {
			w.log.Error().Err(derr).Str("device_id", job.DeviceID.String()).Msg("stale device cleanup failed")
		} else {
			w.log.Warn().Str("device_id", job.DeviceID.String()).Msg("deleted unregistered device")
		}
		return nil
	}
	if err != nil {
		metrics.PushSends.WithLabelValues("error").Inc()
		return domain.NewDependencyError("push gateway send failed", err)
	}
	metrics.PushSends.WithLabelValues("ok").Inc()

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  job.UserID,
		Title:   job.Title,
		Content: job.Body,
	}
	if job.Route != "" {
		notif.Route = &job.Route
	}
	if job.Param != "" {
		notif.Param = &job.Param
	}
	if err := w.notifRepo.Create(ctx, notif); err != nil {
		// The push went out; retrying the job would double-send. Record the
		// failure and acknowledge.
		w.log.Error().Err(err).Str("user_id", job.UserID.String()).Msg("notification row insert failed")
		return nil
	}

	w.log.Info().
		Str("user_id", job.UserID.String()).
		Str("device_id", job.DeviceID.String()).
		Msg("notification delivered")
	return nil
}
