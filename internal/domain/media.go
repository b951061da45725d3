package domain

import "time"

// MediaOwnerKind tells which row a media record hangs off.
type MediaOwnerKind string

const (
	MediaOwnerCase     MediaOwnerKind = "case"
	MediaOwnerActivity MediaOwnerKind = "activity"
)

// CaseMedia is written exclusively by the media ingestion worker, always after
// the owning case or activity row has committed.
type CaseMedia struct {
	ID          int64          `json:"id" db:"id"`
	OwnerKind   MediaOwnerKind `json:"-" db:"owner_kind"`
	OwnerID     int64          `json:"-" db:"owner_id"`
	Path        string         `json:"path" db:"path"`
	Placeholder string         `json:"placeholder" db:"placeholder"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// ImageUpload carries one attachment's bytes from the transport boundary to
// the enqueue step; it never reaches the database directly.
type ImageUpload struct {
	FileName string
	Size     int64
	MimeType string
	Data     []byte
}
