// Package queue is the at-least-once job pipe between the synchronous request
// path and the background workers, carried over Redis Streams. Producers only
// ever enqueue after their database transaction has committed, so a delivered
// job can rely on its owning row existing.
package queue

import (
	"context"

	"github.com/google/uuid"

	"lapor-warga/internal/domain"
)

// Stream names form the wire contract between producer and consumer deploys;
// never rename without draining.
const (
	StreamMediaIngest = "queue:media_ingest"
	StreamNotify      = "queue:notify_status_change"
)

// DeadLetterSuffix is appended to a stream's name for its dead-letter stream.
const DeadLetterSuffix = ":dead"

type Queue interface {
	Enqueue(ctx context.Context, stream string, payload interface{}) error
}

// MediaIngestJob is one image to upload and fingerprint. Image bytes travel
// base64-encoded inside the JSON payload.
type MediaIngestJob struct {
	OwnerKind domain.MediaOwnerKind `json:"owner_kind"`
	OwnerID   int64                 `json:"owner_id"`
	Image     []byte                `json:"image"`
	FileName  string                `json:"file_name"`
	Size      int64                 `json:"size"`
	MimeType  string                `json:"mime_type"`
}

// NotifyStatusChangeJob targets one registered device; fan-out enqueues one
// job per device so deliveries fail independently.
type NotifyStatusChangeJob struct {
	UserID      uuid.UUID `json:"user_id"`
	DeviceToken string    `json:"device_token"`
	DeviceID    uuid.UUID `json:"device_id"`
	Route       string    `json:"route,omitempty"`
	Param       string    `json:"param,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}
