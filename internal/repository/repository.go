package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Case         CaseRepository
	Media        MediaRepository
	Device       DeviceRepository
	Notification NotificationRepository
	SavedCase    SavedCaseRepository
	User         UserRepository
	Verification VerificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Case:         NewCaseRepository(db),
		Media:        NewMediaRepository(db),
		Device:       NewDeviceRepository(db),
		Notification: NewNotificationRepository(db),
		SavedCase:    NewSavedCaseRepository(db),
		User:         NewUserRepository(db),
		Verification: NewVerificationRepository(db),
	}
}
