package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lapor-warga/internal/domain"
)

type MediaRepository interface {
	Create(ctx context.Context, media *domain.CaseMedia) error
	ListByOwner(ctx context.Context, kind domain.MediaOwnerKind, ownerID int64) ([]domain.CaseMedia, error)
}

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.CaseMedia) error {
	query := `
		INSERT INTO case_media (owner_kind, owner_id, path, placeholder)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		media.OwnerKind, media.OwnerID, media.Path, media.Placeholder,
	).Scan(&media.ID, &media.CreatedAt)
}

func (r *mediaRepository) ListByOwner(ctx context.Context, kind domain.MediaOwnerKind, ownerID int64) ([]domain.CaseMedia, error) {
	var media []domain.CaseMedia
	query := `
		SELECT id, owner_kind, owner_id, path, placeholder, created_at
		FROM case_media
		WHERE owner_kind = $1 AND owner_id = $2
		ORDER BY id`
	err := r.db.SelectContext(ctx, &media, query, kind, ownerID)
	return media, err
}
