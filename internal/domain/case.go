package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CaseKind distinguishes the two citizen submission pipelines. Both share the
// same lifecycle; suggestions additionally pass through StatusPlan.
type CaseKind string

const (
	KindComplaint  CaseKind = "complaint"
	KindSuggestion CaseKind = "suggestion"
)

func (k CaseKind) Valid() bool {
	return k == KindComplaint || k == KindSuggestion
}

// Code returns the two-letter kind code used in reference numbers.
func (k CaseKind) Code() string {
	if k == KindSuggestion {
		return "SG"
	}
	return "CP"
}

// Status values mirror the seeded status table; they are stable identifiers,
// not array indexes.
type Status int

const (
	StatusWaiting      Status = 1
	StatusVerification Status = 2
	StatusProcess      Status = 3
	StatusComplete     Status = 4
	StatusCanceled     Status = 5
	StatusDeclined     Status = 6
	StatusPlan         Status = 7
)

// Terminal statuses have no outbound transitions.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusCanceled || s == StatusDeclined
}

func (s Status) Title() string {
	switch s {
	case StatusWaiting:
		return "Menunggu"
	case StatusVerification:
		return "Verifikasi"
	case StatusProcess:
		return "Proses"
	case StatusComplete:
		return "Selesai"
	case StatusCanceled:
		return "Dibatalkan"
	case StatusDeclined:
		return "Ditolak"
	case StatusPlan:
		return "Direncanakan"
	}
	return "Unknown"
}

// ReferencePrefix is the fixed agency prefix on every reference number.
const ReferencePrefix = "DC"

// FormatReference builds the human-readable case reference:
// {PREFIX}-{KIND}-{YYMMDD}-{5-digit sequence}, e.g. DC-CP-240115-00001.
func FormatReference(kind CaseKind, at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-%05d", ReferencePrefix, kind.Code(), at.Format("060102"), seq)
}

type Case struct {
	ID             int64      `json:"id" db:"id"`
	Kind           CaseKind   `json:"kind" db:"kind"`
	RefID          string     `json:"ref_id" db:"ref_id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	CategoryID     int64      `json:"category_id" db:"category_id"`
	PriorityID     int64      `json:"priority_id" db:"priority_id"`
	StatusID       Status     `json:"status_id" db:"status_id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	AssignedRoleID *uuid.UUID `json:"assigned_role_id,omitempty" db:"assigned_role_id"`
	DetailLocation string     `json:"detail_location" db:"detail_location"`
	GPSAddress     string     `json:"gps_address" db:"gps_address"`
	Lat            string     `json:"lat" db:"lat"`
	Long           string     `json:"long" db:"long"`
	Village        string     `json:"village" db:"village"`
	IsVerified     bool       `json:"is_verified" db:"is_verified"`
	FeedbackCount  int        `json:"feedback_count" db:"feedback_count"`
	FeedbackAvg    float64    `json:"feedback_avg" db:"feedback_avg"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	Images     []CaseMedia `json:"images,omitempty" db:"-"`
	SavedByMe  bool        `json:"saved_by_me,omitempty" db:"-"`
	OwnerName  string      `json:"owner_name,omitempty" db:"-"`
	StatusName string      `json:"status_name,omitempty" db:"-"`
}

type CreateCaseInput struct {
	Title          string `json:"title" validate:"required,min=4,max=70"`
	Description    string `json:"description" validate:"required,min=70,max=1200"`
	CategoryID     int64  `json:"category_id" validate:"required"`
	PriorityID     int64  `json:"priority_id" validate:"required"`
	DetailLocation string `json:"detail_location" validate:"required,min=4,max=200"`
	GPSAddress     string `json:"gps_address" validate:"required"`
	Lat            string `json:"lat" validate:"required"`
	Long           string `json:"long" validate:"required"`
	Village        string `json:"village" validate:"required"`
}

// Validate applies the field bounds the mobile client enforces on its side.
func (in *CreateCaseInput) Validate() error {
	switch {
	case len(in.Title) < 4 || len(in.Title) > 70:
		return NewValidationError("judul harus 4-70 karakter")
	case len(in.Description) < 70 || len(in.Description) > 1200:
		return NewValidationError("deskripsi harus 70-1200 karakter")
	case in.CategoryID == 0:
		return NewValidationError("kategori harus diisi")
	case in.PriorityID == 0:
		return NewValidationError("prioritas harus diisi")
	case len(in.DetailLocation) < 4 || len(in.DetailLocation) > 200:
		return NewValidationError("detail lokasi harus 4-200 karakter")
	case in.GPSAddress == "" || in.Lat == "" || in.Long == "" || in.Village == "":
		return NewValidationError("lokasi harus diisi")
	}
	return nil
}

type RateCaseInput struct {
	Rate     int     `json:"rate" validate:"required,min=1,max=5"`
	RateText *string `json:"rate_text,omitempty" validate:"omitempty,max=500"`
}

type CaseFilter struct {
	Kind       CaseKind
	Query      string
	StatusIDs  []Status
	Categories []int64
	Priorities []int64
	OrderDesc  bool
	// AssignedRoleType restricts results to cases assigned to roles of this
	// type (technical executors only see their own queue).
	AssignedRoleType string
}

type CaseFeedback struct {
	ID        int64     `json:"id" db:"id"`
	CaseID    int64     `json:"case_id" db:"case_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Score     int       `json:"score" db:"score"`
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
