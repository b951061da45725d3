// Package cases implements the case lifecycle engine: creation with
// race-safe reference numbering, the officer-driven status state machine with
// its append-only activity trail, and the post-commit handoff to the
// background pipelines.
package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/repository"
)

type Service interface {
	Create(ctx context.Context, kind domain.CaseKind, actor domain.ActingUser, input domain.CreateCaseInput, images []domain.ImageUpload) (*domain.Case, error)
	// Transition applies one officer action. Exactly one activity row is
	// written; media and notification jobs are enqueued only after the
	// transaction commits.
	Transition(ctx context.Context, caseID int64, action domain.TransitionAction, actor domain.ActingUser, notes *string, assignRoleID *uuid.UUID, images []domain.ImageUpload) (*domain.CaseActivity, error)
	// Cancel is the only owner-driven transition.
	Cancel(ctx context.Context, caseID int64, actor domain.ActingUser) (*domain.Case, error)

	GetByID(ctx context.Context, id int64, viewer *domain.ActingUser) (*domain.Case, error)
	ListByUser(ctx context.Context, kind domain.CaseKind, userID uuid.UUID) ([]domain.Case, error)
	List(ctx context.Context, actor domain.ActingUser, kind domain.CaseKind, filter domain.CaseFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Case], error)
	Latest(ctx context.Context, kind domain.CaseKind, limit int) ([]domain.Case, error)
	Activities(ctx context.Context, caseID int64) ([]domain.CaseActivity, error)
	CountToday(ctx context.Context, kind domain.CaseKind) (int64, error)

	Save(ctx context.Context, caseID int64, userID uuid.UUID) (*domain.SavedCase, error)
	Unsave(ctx context.Context, caseID int64, userID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID) ([]domain.SavedCase, error)

	Rate(ctx context.Context, caseID int64, actor domain.ActingUser, input domain.RateCaseInput) (*domain.Case, error)
}

type service struct {
	caseRepo   repository.CaseRepository
	mediaRepo  repository.MediaRepository
	savedRepo  repository.SavedCaseRepository
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceRepository
	jobs       queue.Queue
	log        zerolog.Logger
}

func NewService(
	caseRepo repository.CaseRepository,
	mediaRepo repository.MediaRepository,
	savedRepo repository.SavedCaseRepository,
	userRepo repository.UserRepository,
	deviceRepo repository.DeviceRepository,
	jobs queue.Queue,
	log zerolog.Logger,
) Service {
	return &service{
		caseRepo:   caseRepo,
		mediaRepo:  mediaRepo,
		savedRepo:  savedRepo,
		userRepo:   userRepo,
		deviceRepo: deviceRepo,
		jobs:       jobs,
		log:        log.With().Str("component", "cases").Logger(),
	}
}

// noun returns the Indonesian word used in copy for each kind.
func noun(kind domain.CaseKind) string {
	if kind == domain.KindSuggestion {
		return "Usulan"
	}
	return "Laporan"
}

func (s *service) Create(ctx context.Context, kind domain.CaseKind, actor domain.ActingUser, input domain.CreateCaseInput, images []domain.ImageUpload) (*domain.Case, error) {
	if !kind.Valid() {
		return nil, domain.NewValidationError("jenis laporan tidak dikenal")
	}
	// Public users report freely; officers and other internal accounts must
	// have a verified phone before filing on behalf of citizens.
	if !actor.IsPublic() && !actor.PhoneVerified {
		return nil, domain.NewForbiddenError("anda tidak memiliki izin untuk melapor")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	c := &domain.Case{
		Kind:           kind,
		Title:          input.Title,
		Description:    input.Description,
		CategoryID:     input.CategoryID,
		PriorityID:     input.PriorityID,
		UserID:         actor.ID,
		DetailLocation: input.DetailLocation,
		GPSAddress:     input.GPSAddress,
		Lat:            input.Lat,
		Long:           input.Long,
		Village:        input.Village,
	}
	act := &domain.CaseActivity{
		Title:       domain.StatusWaiting.Title(),
		Description: fmt.Sprintf("%s anda menunggu respon petugas.", noun(kind)),
		UserID:      actor.ID,
	}

	if err := s.caseRepo.CreateWithActivity(ctx, c, act); err != nil {
		return nil, err
	}

	// Only now may the jobs reference the case row.
	s.enqueueMedia(ctx, domain.MediaOwnerCase, c.ID, c.RefID+"_image", images)

	return c, nil
}

func (s *service) GetByID(ctx context.Context, id int64, viewer *domain.ActingUser) (*domain.Case, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Images, err = s.mediaRepo.ListByOwner(ctx, domain.MediaOwnerCase, c.ID)
	if err != nil {
		return nil, err
	}
	c.StatusName = c.StatusID.Title()

	if viewer != nil {
		saved, err := s.savedRepo.IsSaved(ctx, viewer.ID, c.ID)
		if err != nil {
			return nil, err
		}
		c.SavedByMe = saved
	}
	return c, nil
}

func (s *service) ListByUser(ctx context.Context, kind domain.CaseKind, userID uuid.UUID) ([]domain.Case, error) {
	cases, err := s.caseRepo.ListByUser(ctx, kind, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachImages(ctx, cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *service) List(ctx context.Context, actor domain.ActingUser, kind domain.CaseKind, filter domain.CaseFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Case], error) {
	params.Validate()
	filter.Kind = kind
	// Technical executors only see the queue assigned to their kind of role.
	if actor.RoleType == domain.RoleTechnicalExecutor {
		filter.AssignedRoleType = domain.RoleTechnicalExecutor
	}

	cases, total, err := s.caseRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Case]{}, err
	}
	if err := s.attachImages(ctx, cases); err != nil {
		return domain.PaginatedResponse[domain.Case]{}, err
	}
	return domain.NewPaginatedResponse(cases, params.Page, params.PageSize, total), nil
}

func (s *service) Latest(ctx context.Context, kind domain.CaseKind, limit int) ([]domain.Case, error) {
	limit = domain.ClampLimit(limit, 10, 50)
	cases, err := s.caseRepo.Latest(ctx, kind, limit)
	if err != nil {
		return nil, err
	}
	if err := s.attachImages(ctx, cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *service) Activities(ctx context.Context, caseID int64) ([]domain.CaseActivity, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}
	acts, err := s.caseRepo.Activities(ctx, caseID)
	if err != nil {
		return nil, err
	}
	for i := range acts {
		images, err := s.mediaRepo.ListByOwner(ctx, domain.MediaOwnerActivity, acts[i].ID)
		if err != nil {
			return nil, err
		}
		acts[i].Images = images
	}
	return acts, nil
}

func (s *service) CountToday(ctx context.Context, kind domain.CaseKind) (int64, error) {
	return s.caseRepo.CountByDay(ctx, kind, time.Now())
}

func (s *service) Save(ctx context.Context, caseID int64, userID uuid.UUID) (*domain.SavedCase, error) {
	return s.savedRepo.Save(ctx, userID, caseID)
}

func (s *service) Unsave(ctx context.Context, caseID int64, userID uuid.UUID) error {
	return s.savedRepo.Unsave(ctx, userID, caseID)
}

func (s *service) ListSaved(ctx context.Context, userID uuid.UUID) ([]domain.SavedCase, error) {
	return s.savedRepo.ListByUser(ctx, userID)
}

func (s *service) Rate(ctx context.Context, caseID int64, actor domain.ActingUser, input domain.RateCaseInput) (*domain.Case, error) {
	if input.Rate < 1 || input.Rate > 5 {
		return nil, domain.NewValidationError("penilaian harus antara 1 dan 5")
	}
	return s.caseRepo.Rate(ctx, caseID, actor.ID, input.Rate, input.RateText)
}

func (s *service) attachImages(ctx context.Context, cases []domain.Case) error {
	for i := range cases {
		images, err := s.mediaRepo.ListByOwner(ctx, domain.MediaOwnerCase, cases[i].ID)
		if err != nil {
			return err
		}
		cases[i].Images = images
		cases[i].StatusName = cases[i].StatusID.Title()
	}
	return nil
}

// extFromMime recovers the filename extension the same way the upload
// pipeline always has: from the mime subtype.
func extFromMime(mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx >= 0 && idx+1 < len(mimeType) {
		return mimeType[idx+1:]
	}
	return "bin"
}

// enqueueMedia hands each attachment to the ingestion pipeline, one job per
// image. Enqueue failures are logged, not surfaced: the case transaction has
// already committed and must not be reported as failed.
func (s *service) enqueueMedia(ctx context.Context, ownerKind domain.MediaOwnerKind, ownerID int64, baseName string, images []domain.ImageUpload) {
	for i, img := range images {
		job := queue.MediaIngestJob{
			OwnerKind: ownerKind,
			OwnerID:   ownerID,
			Image:     img.Data,
			FileName:  fmt.Sprintf("%s %d.%s", baseName, i, extFromMime(img.MimeType)),
			Size:      img.Size,
			MimeType:  img.MimeType,
		}
		if err := s.jobs.Enqueue(ctx, queue.StreamMediaIngest, job); err != nil {
			s.log.Error().Err(err).
				Str("owner_kind", string(ownerKind)).
				Int64("owner_id", ownerID).
				Msg("failed to enqueue media job")
		}
	}
}
