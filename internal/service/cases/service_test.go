package cases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/mocks"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/service/cases"
)

type testEnv struct {
	caseRepo   *mocks.CaseRepository
	mediaRepo  *mocks.MediaRepository
	savedRepo  *mocks.SavedCaseRepository
	userRepo   *mocks.UserRepository
	deviceRepo *mocks.DeviceRepository
	jobs       *mocks.Queue
	svc        cases.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		caseRepo:   new(mocks.CaseRepository),
		mediaRepo:  new(mocks.MediaRepository),
		savedRepo:  new(mocks.SavedCaseRepository),
		userRepo:   new(mocks.UserRepository),
		deviceRepo: new(mocks.DeviceRepository),
		jobs:       new(mocks.Queue),
	}
	env.svc = cases.NewService(env.caseRepo, env.mediaRepo, env.savedRepo, env.userRepo, env.deviceRepo, env.jobs, zerolog.Nop())
	return env
}

func citizen() domain.ActingUser {
	return domain.ActingUser{
		ID:        uuid.New(),
		FirstName: "Budi",
		RoleType:  domain.RolePublic,
	}
}

func officer() domain.ActingUser {
	return domain.ActingUser{
		ID:            uuid.New(),
		FirstName:     "Siti",
		RoleID:        uuid.New(),
		RoleName:      "Petugas Otorisasi",
		RoleType:      domain.RoleAuthorizer,
		PhoneVerified: true,
	}
}

func validInput() domain.CreateCaseInput {
	return domain.CreateCaseInput{
		Title:          "Jalan berlubang",
		Description:    strings.Repeat("Lubang besar di tengah jalan utama. ", 3),
		CategoryID:     1,
		PriorityID:     2,
		DetailLocation: "Depan balai desa",
		GPSAddress:     "Jl. Merdeka No. 1",
		Lat:            "-6.2000",
		Long:           "106.8166",
		Village:        "Sukamaju",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		actor := citizen()

		env.caseRepo.On("CreateWithActivity", ctx, mock.MatchedBy(func(c *domain.Case) bool {
			return c.Kind == domain.KindComplaint && c.UserID == actor.ID
		}), mock.MatchedBy(func(a *domain.CaseActivity) bool {
			return a.Title == "Menunggu" && a.UserID == actor.ID
		})).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.Case)
			c.ID = 7
			c.RefID = "DC-CP-240115-00001"
			c.StatusID = domain.StatusWaiting
		}).Return(nil).Once()

		created, err := env.svc.Create(ctx, domain.KindComplaint, actor, validInput(), nil)

		assert.NoError(t, err)
		assert.Equal(t, "DC-CP-240115-00001", created.RefID)
		assert.Equal(t, domain.StatusWaiting, created.StatusID)
		env.caseRepo.AssertExpectations(t)
		env.jobs.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EnqueuesOneMediaJobPerImage", func(t *testing.T) {
		env := newTestEnv()
		actor := citizen()

		env.caseRepo.On("CreateWithActivity", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				c := args.Get(1).(*domain.Case)
				c.ID = 9
				c.RefID = "DC-CP-240115-00002"
			}).Return(nil).Once()

		env.jobs.On("Enqueue", ctx, queue.StreamMediaIngest, mock.MatchedBy(func(job queue.MediaIngestJob) bool {
			return job.OwnerKind == domain.MediaOwnerCase && job.OwnerID == 9 && len(job.Image) > 0
		})).Return(nil).Twice()

		images := []domain.ImageUpload{
			{FileName: "a.jpg", Size: 3, MimeType: "image/jpeg", Data: []byte{1, 2, 3}},
			{FileName: "b.png", Size: 3, MimeType: "image/png", Data: []byte{4, 5, 6}},
		}
		_, err := env.svc.Create(ctx, domain.KindComplaint, actor, validInput(), images)

		assert.NoError(t, err)
		env.jobs.AssertExpectations(t)
	})

	t.Run("EnqueueFailureDoesNotFailCreate", func(t *testing.T) {
		env := newTestEnv()
		actor := citizen()

		env.caseRepo.On("CreateWithActivity", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Case).ID = 11
			}).Return(nil).Once()
		env.jobs.On("Enqueue", ctx, queue.StreamMediaIngest, mock.Anything).
			Return(assert.AnError).Once()

		created, err := env.svc.Create(ctx, domain.KindComplaint, actor, validInput(),
			[]domain.ImageUpload{{FileName: "a.jpg", Size: 1, MimeType: "image/jpeg", Data: []byte{1}}})

		assert.NoError(t, err)
		assert.NotNil(t, created)
	})

	t.Run("UnverifiedOfficerForbidden", func(t *testing.T) {
		env := newTestEnv()
		actor := officer()
		actor.PhoneVerified = false

		_, err := env.svc.Create(ctx, domain.KindComplaint, actor, validInput(), nil)

		assert.True(t, domain.IsKind(err, domain.KindForbidden))
		env.caseRepo.AssertNotCalled(t, "CreateWithActivity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		env := newTestEnv()
		input := validInput()
		input.Title = "ab"

		_, err := env.svc.Create(ctx, domain.KindComplaint, citizen(), input, nil)

		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("UnknownKind", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.Create(ctx, domain.CaseKind("report"), citizen(), validInput(), nil)

		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestRate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		actor := citizen()
		rated := &domain.Case{ID: 5, FeedbackCount: 1, FeedbackAvg: 4}

		env.caseRepo.On("Rate", ctx, int64(5), actor.ID, 4, (*string)(nil)).Return(rated, nil).Once()

		c, err := env.svc.Rate(ctx, 5, actor, domain.RateCaseInput{Rate: 4})

		assert.NoError(t, err)
		assert.Equal(t, 4.0, c.FeedbackAvg)
		env.caseRepo.AssertExpectations(t)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.Rate(ctx, 5, citizen(), domain.RateCaseInput{Rate: 6})

		assert.True(t, domain.IsKind(err, domain.KindValidation))
		env.caseRepo.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestList_TechnicalExecutorScoping(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	actor := officer()
	actor.RoleType = domain.RoleTechnicalExecutor

	env.caseRepo.On("List", ctx, mock.MatchedBy(func(f domain.CaseFilter) bool {
		return f.Kind == domain.KindComplaint && f.AssignedRoleType == domain.RoleTechnicalExecutor
	}), mock.Anything).Return([]domain.Case{}, int64(0), nil).Once()

	_, err := env.svc.List(ctx, actor, domain.KindComplaint, domain.CaseFilter{}, domain.DefaultPagination())

	assert.NoError(t, err)
	env.caseRepo.AssertExpectations(t)
}

func TestGetByID_AttachesImagesAndSavedFlag(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	viewer := citizen()

	env.caseRepo.On("GetByID", ctx, int64(3)).Return(&domain.Case{ID: 3, StatusID: domain.StatusProcess}, nil).Once()
	env.mediaRepo.On("ListByOwner", ctx, domain.MediaOwnerCase, int64(3)).
		Return([]domain.CaseMedia{{ID: 1, Path: "https://cdn/x.jpg", Placeholder: "LEHV6nWB"}}, nil).Once()
	env.savedRepo.On("IsSaved", ctx, viewer.ID, int64(3)).Return(true, nil).Once()

	c, err := env.svc.GetByID(ctx, 3, &viewer)

	assert.NoError(t, err)
	assert.Len(t, c.Images, 1)
	assert.True(t, c.SavedByMe)
	assert.Equal(t, "Proses", c.StatusName)
}
