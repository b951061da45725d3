package cases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/queue"
	"lapor-warga/internal/repository"
)

func TestTransition_Verify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	actor := officer()

	ownerID := uuid.New()
	seed := &domain.Case{
		ID:       21,
		Kind:     domain.KindComplaint,
		RefID:    "DC-CP-240115-00003",
		StatusID: domain.StatusWaiting,
		UserID:   ownerID,
	}

	var fnAct *domain.CaseActivity
	var fnErr error
	env.caseRepo.On("Transition", ctx, int64(21), mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(repository.TransitionFunc)
			fnAct, fnErr = fn(seed)
		}).
		Return(seed, &domain.CaseActivity{ID: 100, CaseID: 21, Title: "Verifikasi", StatusID: domain.StatusVerification}, nil).
		Once()

	owner := &domain.User{ID: ownerID, FirstName: "Budi", RoleType: domain.RolePublic}
	env.userRepo.On("GetByID", ctx, ownerID).Return(owner, nil).Once()

	devices := []domain.Device{
		{ID: uuid.New(), UserID: ownerID, DeviceToken: "ExponentPushToken[aaa]"},
		{ID: uuid.New(), UserID: ownerID, DeviceToken: "ExponentPushToken[bbb]"},
	}
	env.deviceRepo.On("ListByUser", ctx, ownerID).Return(devices, nil).Once()

	env.jobs.On("Enqueue", ctx, queue.StreamNotify, mock.MatchedBy(func(job queue.NotifyStatusChangeJob) bool {
		return job.Title == "Laporanmu Diverifikasi!" &&
			job.Route == "ComplaintDetail" && job.Param == "21" &&
			(job.DeviceToken == "ExponentPushToken[aaa]" || job.DeviceToken == "ExponentPushToken[bbb]")
	})).Return(nil).Twice()

	act, err := env.svc.Transition(ctx, 21, domain.ActionVerify, actor, nil, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(100), act.ID)

	// The guard callback mutated the locked row.
	assert.NoError(t, fnErr)
	assert.Equal(t, domain.StatusVerification, seed.StatusID)
	assert.True(t, seed.IsVerified)
	assert.Equal(t, "Verifikasi", fnAct.Title)
	assert.Equal(t, actor.ID, fnAct.UserID)

	env.caseRepo.AssertExpectations(t)
	env.jobs.AssertExpectations(t)
}

func TestTransition_TerminalRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	seed := &domain.Case{ID: 4, Kind: domain.KindComplaint, StatusID: domain.StatusComplete}

	var fnErr error
	env.caseRepo.On("Transition", ctx, int64(4), mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(repository.TransitionFunc)
			_, fnErr = fn(seed)
		}).
		Return(nil, nil, domain.NewForbiddenError("laporan sudah berstatus akhir")).
		Once()

	_, err := env.svc.Transition(ctx, 4, domain.ActionProcess, officer(), nil, nil, nil)

	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	assert.True(t, domain.IsKind(fnErr, domain.KindForbidden))
	env.jobs.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_PublicUserForbidden(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Transition(context.Background(), 1, domain.ActionVerify, citizen(), nil, nil, nil)

	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	env.caseRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_CancelActionRejected(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Transition(context.Background(), 1, domain.ActionCancel, officer(), nil, nil, nil)

	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestTransition_AssignRequiresRole(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Transition(context.Background(), 1, domain.ActionAssign, officer(), nil, nil, nil)

	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestTransition_AssignSetsRole(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	actor := officer()

	roleID := uuid.New()
	role := &domain.Role{ID: roleID, Name: "Dinas Pekerjaan Umum", Type: domain.RoleTechnicalExecutor}
	env.userRepo.On("GetRoleByID", ctx, roleID).Return(role, nil).Once()

	ownerID := uuid.New()
	seed := &domain.Case{ID: 8, Kind: domain.KindComplaint, RefID: "DC-CP-240115-00004", StatusID: domain.StatusVerification, UserID: ownerID}

	env.caseRepo.On("Transition", ctx, int64(8), mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(repository.TransitionFunc)
			_, _ = fn(seed)
		}).
		Return(seed, &domain.CaseActivity{ID: 101, CaseID: 8, Title: "Proses"}, nil).
		Once()

	env.userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, FirstName: "Budi"}, nil).Once()
	env.deviceRepo.On("ListByUser", ctx, ownerID).Return([]domain.Device{}, nil).Once()

	_, err := env.svc.Transition(ctx, 8, domain.ActionAssign, actor, nil, &roleID, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusProcess, seed.StatusID)
	assert.Equal(t, &roleID, seed.AssignedRoleID)
}

func TestTransition_ActivityImagesEnqueued(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	actor := officer()

	ownerID := uuid.New()
	seed := &domain.Case{ID: 30, Kind: domain.KindComplaint, RefID: "DC-CP-240115-00005", StatusID: domain.StatusProcess, UserID: ownerID}

	env.caseRepo.On("Transition", ctx, int64(30), mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(repository.TransitionFunc)
			_, _ = fn(seed)
		}).
		Return(seed, &domain.CaseActivity{ID: 200, CaseID: 30, Title: "Selesai", StatusID: domain.StatusComplete}, nil).
		Once()

	env.userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, FirstName: "Budi"}, nil).Once()
	env.deviceRepo.On("ListByUser", ctx, ownerID).Return([]domain.Device{}, nil).Once()

	// Completion photos hang off the activity, not the case.
	env.jobs.On("Enqueue", ctx, queue.StreamMediaIngest, mock.MatchedBy(func(job queue.MediaIngestJob) bool {
		return job.OwnerKind == domain.MediaOwnerActivity && job.OwnerID == 200
	})).Return(nil).Once()

	images := []domain.ImageUpload{{FileName: "done.jpg", Size: 3, MimeType: "image/jpeg", Data: []byte{1, 2, 3}}}
	_, err := env.svc.Transition(ctx, 30, domain.ActionComplete, actor, nil, nil, images)

	assert.NoError(t, err)
	env.jobs.AssertExpectations(t)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCancels", func(t *testing.T) {
		env := newTestEnv()
		actor := citizen()
		seed := &domain.Case{ID: 12, Kind: domain.KindComplaint, StatusID: domain.StatusWaiting, UserID: actor.ID}

		env.caseRepo.On("Transition", ctx, int64(12), mock.Anything).
			Run(func(args mock.Arguments) {
				fn := args.Get(2).(repository.TransitionFunc)
				_, _ = fn(seed)
			}).
			Return(seed, &domain.CaseActivity{ID: 300, Title: "Dibatalkan"}, nil).
			Once()

		c, err := env.svc.Cancel(ctx, 12, actor)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCanceled, c.StatusID)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		env := newTestEnv()
		seed := &domain.Case{ID: 12, Kind: domain.KindComplaint, StatusID: domain.StatusWaiting, UserID: uuid.New()}

		var fnErr error
		env.caseRepo.On("Transition", ctx, int64(12), mock.Anything).
			Run(func(args mock.Arguments) {
				fn := args.Get(2).(repository.TransitionFunc)
				_, fnErr = fn(seed)
			}).
			Return(nil, nil, domain.NewForbiddenError("anda tidak memiliki akses untuk merubah status")).
			Once()

		_, err := env.svc.Cancel(ctx, 12, citizen())

		assert.True(t, domain.IsKind(err, domain.KindForbidden))
		assert.True(t, domain.IsKind(fnErr, domain.KindForbidden))
		assert.Equal(t, domain.StatusWaiting, seed.StatusID)
	})
}
