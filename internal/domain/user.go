package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role types as seeded; everything that is not the public role counts as an
// officer of some kind.
const (
	RolePublic            = "masyarakat"
	RoleTechnicalExecutor = "pelaksana-teknis"
	RoleAuthorizer        = "petugas-otorisasi"
	RoleSuperAdmin        = "super-admin"
)

type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Type        string    `json:"type" db:"type"`
}

// User is the read-only projection this service needs; account management
// lives in the auth service.
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	RoleID           uuid.UUID `json:"role_id" db:"role_id"`
	RoleName         string    `json:"role_name" db:"role_name"`
	RoleType         string    `json:"role_type" db:"role_type"`
	PhoneVerified    bool      `json:"phone_verified" db:"phone_verified"`
	IdentityVerified bool      `json:"identity_verified" db:"identity_verified"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ActingUser is the caller identity the lifecycle engine works with, resolved
// once at the transport boundary.
type ActingUser struct {
	ID            uuid.UUID
	FirstName     string
	RoleID        uuid.UUID
	RoleName      string
	RoleType      string
	PhoneVerified bool
}

func (a ActingUser) IsPublic() bool {
	return a.RoleType == RolePublic
}

func (a ActingUser) IsOfficer() bool {
	return a.RoleType != RolePublic && a.RoleType != ""
}

func ActingUserFrom(u *User) ActingUser {
	return ActingUser{
		ID:            u.ID,
		FirstName:     u.FirstName,
		RoleID:        u.RoleID,
		RoleName:      u.RoleName,
		RoleType:      u.RoleType,
		PhoneVerified: u.PhoneVerified,
	}
}
