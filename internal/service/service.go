package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lapor-warga/internal/config"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/repository"
	"lapor-warga/internal/service/analytics"
	"lapor-warga/internal/service/cases"
	"lapor-warga/internal/service/device"
	"lapor-warga/internal/service/email"
	"lapor-warga/internal/service/notification"
	"lapor-warga/internal/service/verification"
)

type Services struct {
	Case         cases.Service
	Device       device.Service
	Notification notification.Service
	Verification verification.Service
	Email        email.Service
	Analytics    analytics.Service
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	jobs := queue.NewRedisQueue(rdb)

	emailService := email.NewService(cfg)
	caseService := cases.NewService(repos.Case, repos.Media, repos.SavedCase, repos.User, repos.Device, jobs, log)
	deviceService := device.NewService(repos.Device)
	notificationService := notification.NewService(repos.Notification)

	sealer, err := verification.NewSealer(cfg.IdentitySealKey)
	if err != nil {
		return nil, err
	}
	verificationService := verification.NewService(repos.Verification, repos.User, emailService, sealer, log)
	analyticsService := analytics.NewService(repos.Case, repos.Verification, repos.User)

	return &Services{
		Case:         caseService,
		Device:       deviceService,
		Notification: notificationService,
		Verification: verificationService,
		Email:        emailService,
		Analytics:    analyticsService,
	}, nil
}
