package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapor-warga/internal/domain"
)

type DeviceRepository interface {
	Register(ctx context.Context, device *domain.Device) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Device, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type deviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Register upserts on the device token so re-installs do not pile up rows.
func (r *deviceRepository) Register(ctx context.Context, device *domain.Device) error {
	query := `
		INSERT INTO devices (id, user_id, device_token, device_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_token) DO UPDATE SET user_id = $2, device_type = $4
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		device.ID, device.UserID, device.DeviceToken, device.DeviceType,
	).Scan(&device.ID, &device.CreatedAt)
}

func (r *deviceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Device, error) {
	var devices []domain.Device
	query := `
		SELECT id, user_id, device_token, device_type, created_at
		FROM devices
		WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &devices, query, userID)
	return devices, err
}

// Delete is a no-op when the row is already gone; unregistered-device cleanup
// may race between workers.
func (r *deviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = $1`, id)
	return err
}
