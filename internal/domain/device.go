package domain

import (
	"time"

	"github.com/google/uuid"
)

type Device struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	DeviceToken string    `json:"device_token" db:"device_token"`
	DeviceType  string    `json:"device_type" db:"device_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type RegisterDeviceInput struct {
	DeviceToken string `json:"device_token" validate:"required"`
	DeviceType  string `json:"device_type" validate:"required"`
}
