package verification_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/mocks"
	"lapor-warga/internal/service/verification"
)

const testSealKey = "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4"

type verifEnv struct {
	verifRepo *mocks.VerificationRepository
	userRepo  *mocks.UserRepository
	emails    *mocks.EmailService
	sealer    *verification.Sealer
	svc       verification.Service
}

func newVerifEnv(t *testing.T) *verifEnv {
	t.Helper()
	sealer, err := verification.NewSealer(testSealKey)
	assert.NoError(t, err)

	env := &verifEnv{
		verifRepo: new(mocks.VerificationRepository),
		userRepo:  new(mocks.UserRepository),
		emails:    new(mocks.EmailService),
		sealer:    sealer,
	}
	env.svc = verification.NewService(env.verifRepo, env.userRepo, env.emails, sealer, zerolog.Nop())
	return env
}

func verifCitizen() domain.ActingUser {
	return domain.ActingUser{ID: uuid.New(), FirstName: "Budi", RoleType: domain.RolePublic}
}

func verifOfficer() domain.ActingUser {
	return domain.ActingUser{ID: uuid.New(), FirstName: "Siti", RoleType: domain.RoleAuthorizer, PhoneVerified: true}
}

func TestRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newVerifEnv(t)
		actor := verifCitizen()

		var sealed string
		env.verifRepo.On("CreateWithLog", ctx, mock.MatchedBy(func(r *domain.VerificationRequest) bool {
			return r.UserID == actor.ID
		}), mock.MatchedBy(func(l *domain.VerificationLog) bool {
			return l.Title == "Menunggu"
		}), mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
			sealed = args.String(3)
		}).Return(nil).Once()

		req, err := env.svc.Request(ctx, actor, &domain.VerificationRequestInput{IDNumber: "3171234567890001"})

		assert.NoError(t, err)
		assert.Len(t, req.Logs, 1)

		// The identity number never reaches the repository in the clear.
		assert.NotEqual(t, "3171234567890001", sealed)
		plain, err := env.sealer.Open(sealed)
		assert.NoError(t, err)
		assert.Equal(t, "3171234567890001", plain)
	})

	t.Run("WrongLength", func(t *testing.T) {
		env := newVerifEnv(t)

		_, err := env.svc.Request(ctx, verifCitizen(), &domain.VerificationRequestInput{IDNumber: "12345"})

		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("NonNumeric", func(t *testing.T) {
		env := newVerifEnv(t)

		_, err := env.svc.Request(ctx, verifCitizen(), &domain.VerificationRequestInput{IDNumber: "31712345678900AB"})

		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	requestID := uuid.New()

	t.Run("OwnerSeesOwnWithoutIdentityNumber", func(t *testing.T) {
		env := newVerifEnv(t)
		actor := verifCitizen()

		env.verifRepo.On("GetByID", ctx, requestID).
			Return(&domain.VerificationRequest{ID: requestID, UserID: actor.ID, StatusID: domain.StatusWaiting}, nil).Once()
		env.verifRepo.On("Logs", ctx, requestID).Return([]domain.VerificationLog{{Title: "Menunggu"}}, nil).Once()
		env.userRepo.On("GetByID", ctx, actor.ID).
			Return(&domain.User{ID: actor.ID, FirstName: "Budi"}, nil).Once()

		req, err := env.svc.Show(ctx, actor, requestID)

		assert.NoError(t, err)
		assert.Empty(t, req.IdentityNumber)
		assert.Len(t, req.Logs, 1)
	})

	t.Run("OfficerSeesIdentityNumber", func(t *testing.T) {
		env := newVerifEnv(t)
		ownerID := uuid.New()
		sealed, err := env.sealer.Seal("3171234567890001")
		assert.NoError(t, err)

		env.verifRepo.On("GetByID", ctx, requestID).
			Return(&domain.VerificationRequest{ID: requestID, UserID: ownerID, StatusID: domain.StatusWaiting}, nil).Once()
		env.verifRepo.On("Logs", ctx, requestID).Return([]domain.VerificationLog{}, nil).Once()
		env.userRepo.On("GetByID", ctx, ownerID).
			Return(&domain.User{ID: ownerID, FirstName: "Budi"}, nil).Once()
		env.verifRepo.On("SealedIdentityNumber", ctx, ownerID).Return(sealed, nil).Once()

		req, err := env.svc.Show(ctx, verifOfficer(), requestID)

		assert.NoError(t, err)
		assert.Equal(t, "3171234567890001", req.IdentityNumber)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		env := newVerifEnv(t)

		env.verifRepo.On("GetByID", ctx, requestID).
			Return(&domain.VerificationRequest{ID: requestID, UserID: uuid.New()}, nil).Once()

		_, err := env.svc.Show(ctx, verifCitizen(), requestID)

		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()
	requestID := uuid.New()

	t.Run("ApproveMarksVerifiedAndEmails", func(t *testing.T) {
		env := newVerifEnv(t)
		ownerID := uuid.New()

		env.verifRepo.On("Decide", ctx, requestID, domain.StatusComplete, mock.MatchedBy(func(l *domain.VerificationLog) bool {
			return l.Title == "Selesai" && l.Content == "Data sesuai"
		})).Return(&domain.VerificationRequest{ID: requestID, UserID: ownerID, StatusID: domain.StatusComplete}, nil).Once()
		env.userRepo.On("GetByID", ctx, ownerID).
			Return(&domain.User{ID: ownerID, FirstName: "Budi", LastName: "Santoso", Email: "budi@example.com"}, nil).Once()
		env.userRepo.On("SetIdentityVerified", ctx, ownerID).Return(nil).Once()
		env.emails.On("SendVerificationApproved", ctx, "budi@example.com", "Budi Santoso").Return(nil).Once()

		req, err := env.svc.Decide(ctx, verifOfficer(), requestID, &domain.VerificationDecisionInput{
			Status:  domain.StatusComplete,
			Content: "Data sesuai",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusComplete, req.StatusID)
		env.userRepo.AssertExpectations(t)
		env.emails.AssertExpectations(t)
	})

	t.Run("DeclineEmailsReason", func(t *testing.T) {
		env := newVerifEnv(t)
		ownerID := uuid.New()

		env.verifRepo.On("Decide", ctx, requestID, domain.StatusDeclined, mock.Anything).
			Return(&domain.VerificationRequest{ID: requestID, UserID: ownerID, StatusID: domain.StatusDeclined}, nil).Once()
		env.userRepo.On("GetByID", ctx, ownerID).
			Return(&domain.User{ID: ownerID, FirstName: "Budi", Email: "budi@example.com"}, nil).Once()
		env.emails.On("SendVerificationDeclined", ctx, "budi@example.com", "Budi", "Foto identitas buram").Return(nil).Once()

		_, err := env.svc.Decide(ctx, verifOfficer(), requestID, &domain.VerificationDecisionInput{
			Status:  domain.StatusDeclined,
			Content: "Foto identitas buram",
		})

		assert.NoError(t, err)
		env.userRepo.AssertNotCalled(t, "SetIdentityVerified", mock.Anything, mock.Anything)
	})

	t.Run("PublicUserForbidden", func(t *testing.T) {
		env := newVerifEnv(t)

		_, err := env.svc.Decide(ctx, verifCitizen(), requestID, &domain.VerificationDecisionInput{
			Status:  domain.StatusComplete,
			Content: "ok",
		})

		assert.True(t, domain.IsKind(err, domain.KindForbidden))
		env.verifRepo.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidDecisionStatus", func(t *testing.T) {
		env := newVerifEnv(t)

		_, err := env.svc.Decide(ctx, verifOfficer(), requestID, &domain.VerificationDecisionInput{
			Status:  domain.StatusProcess,
			Content: "ok",
		})

		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}
