package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"lapor-warga/internal/config"
	"lapor-warga/internal/push"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/repository"
	"lapor-warga/internal/storage"
	"lapor-warga/internal/worker"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Environment == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to minio")
	}

	repos := repository.NewRepositories(db)
	store := storage.NewMinIOStore(minioClient, cfg)
	fingerprint := storage.NewBlurhashFingerprinter()
	gateway := push.NewExpoGateway(cfg.ExpoAccessToken)

	mediaWorker := worker.NewMediaWorker(store, fingerprint, repos.Media, log)
	notificationWorker := worker.NewNotificationWorker(gateway, repos.Device, repos.Notification, log)

	hostname, _ := os.Hostname()

	mediaConsumer := queue.NewConsumer(rdb, queue.StreamMediaIngest, mediaWorker.Handle, queue.ConsumerOptions{
		Group:       cfg.QueueGroup,
		Consumer:    hostname + "-media",
		Workers:     cfg.MediaWorkers,
		MaxAttempts: cfg.QueueMaxAttempts,
		BackoffBase: cfg.QueueBackoffBase,
		ClaimEvery:  cfg.QueueClaimEvery,
	}, log)

	notifyConsumer := queue.NewConsumer(rdb, queue.StreamNotify, notificationWorker.Handle, queue.ConsumerOptions{
		Group:       cfg.QueueGroup,
		Consumer:    hostname + "-notify",
		Workers:     cfg.NotifyWorkers,
		MaxAttempts: cfg.QueueMaxAttempts,
		BackoffBase: cfg.QueueBackoffBase,
		ClaimEvery:  cfg.QueueClaimEvery,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mediaConsumer.Run(ctx) })
	g.Go(func() error { return notifyConsumer.Run(ctx) })

	log.Info().Msg("workers started")
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("worker stopped unexpectedly")
	}
	log.Info().Msg("workers stopped")
}
