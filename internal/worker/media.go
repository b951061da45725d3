// Package worker holds the background consumers that drain the job queue:
// media ingestion and notification fan-out.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/repository"
	"lapor-warga/internal/storage"
)

// MediaWorker uploads one attached image, computes its placeholder and
// records the media row. The insert is the job's durable side effect; a retry
// after a crash re-uploads under a fresh key, which is harmless.
type MediaWorker struct {
	store       storage.Store
	fingerprint storage.Fingerprinter
	mediaRepo   repository.MediaRepository
	log         zerolog.Logger
}

func NewMediaWorker(store storage.Store, fingerprint storage.Fingerprinter, mediaRepo repository.MediaRepository, log zerolog.Logger) *MediaWorker {
	return &MediaWorker{
		store:       store,
		fingerprint: fingerprint,
		mediaRepo:   mediaRepo,
		log:         log.With().Str("worker", "media").Logger(),
	}
}

func (w *MediaWorker) Handle(ctx context.Context, payload []byte) error {
	var job queue.MediaIngestJob
	if err := json.Unmarshal(payload, &job); err != nil {
		// Undecodable payloads would fail forever; surface them via the
		// dead-letter path by erroring like any other failure.
		return fmt.Errorf("decode media job: %w", err)
	}

	if len(job.Image) == 0 {
		return fmt.Errorf("media job %s/%d has no image bytes", job.OwnerKind, job.OwnerID)
	}

	// Collision-resistant key: every attempt generates its own.
	key := fmt.Sprintf("cases/%s/%s-%s", time.Now().Format("2006/01"), uuid.New().String(), job.FileName)

	path, err := w.store.Put(ctx, key, job.Image, job.MimeType)
	if err != nil {
		return domain.NewDependencyError("media store upload failed", err)
	}

	placeholder, err := w.fingerprint.Placeholder(job.Image)
	if err != nil {
		return domain.NewDependencyError("placeholder computation failed", err)
	}

	media := &domain.CaseMedia{
		OwnerKind:   job.OwnerKind,
		OwnerID:     job.OwnerID,
		Path:        path,
		Placeholder: placeholder,
	}
	if err := w.mediaRepo.Create(ctx, media); err != nil {
		return fmt.Errorf("store media row: %w", err)
	}

	w.log.Info().
		Str("owner_kind", string(job.OwnerKind)).
		Int64("owner_id", job.OwnerID).
		Str("path", path).
		Msg("media stored")
	return nil
}
