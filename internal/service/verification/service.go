// Package verification handles identity-verification requests: citizens submit
// their identity number once, an authorizing officer approves or declines, and
// every decision lands in an append-only log.
package verification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/repository"
	"lapor-warga/internal/service/email"
)

type Service interface {
	Request(ctx context.Context, actor domain.ActingUser, input *domain.VerificationRequestInput) (*domain.VerificationRequest, error)
	Show(ctx context.Context, actor domain.ActingUser, id uuid.UUID) (*domain.VerificationRequest, error)
	Decide(ctx context.Context, actor domain.ActingUser, id uuid.UUID, input *domain.VerificationDecisionInput) (*domain.VerificationRequest, error)
}

type service struct {
	verifRepo repository.VerificationRepository
	userRepo  repository.UserRepository
	emails    email.Service
	sealer    *Sealer
	log       zerolog.Logger
}

func NewService(verifRepo repository.VerificationRepository, userRepo repository.UserRepository, emails email.Service, sealer *Sealer, log zerolog.Logger) Service {
	return &service{
		verifRepo: verifRepo,
		userRepo:  userRepo,
		emails:    emails,
		sealer:    sealer,
		log:       log.With().Str("component", "verification_service").Logger(),
	}
}

func (s *service) Request(ctx context.Context, actor domain.ActingUser, input *domain.VerificationRequestInput) (*domain.VerificationRequest, error) {
	if len(input.IDNumber) != 16 {
		return nil, domain.NewValidationError("nomor identitas harus 16 digit")
	}
	for _, c := range input.IDNumber {
		if c < '0' || c > '9' {
			return nil, domain.NewValidationError("nomor identitas harus berupa angka")
		}
	}

	sealed, err := s.sealer.Seal(input.IDNumber)
	if err != nil {
		return nil, domain.NewInternalError("gagal mengamankan nomor identitas", err)
	}

	req := &domain.VerificationRequest{
		ID:     uuid.New(),
		UserID: actor.ID,
	}
	logEntry := &domain.VerificationLog{
		Title:   domain.StatusWaiting.Title(),
		Content: "Permintaan verifikasi identitas anda menunggu persetujuan petugas.",
	}
	if err := s.verifRepo.CreateWithLog(ctx, req, logEntry, sealed); err != nil {
		return nil, err
	}

	req.Logs = []domain.VerificationLog{*logEntry}
	s.log.Info().
		Str("request_id", req.ID.String()).
		Str("user_id", actor.ID.String()).
		Msg("verification request created")
	return req, nil
}

func (s *service) Show(ctx context.Context, actor domain.ActingUser, id uuid.UUID) (*domain.VerificationRequest, error) {
	req, err := s.verifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsPublic() && req.UserID != actor.ID {
		return nil, domain.NewForbiddenError("anda tidak memiliki akses ke permintaan ini")
	}

	logs, err := s.verifRepo.Logs(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Logs = logs

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	req.User = user

	// Only the deciding officer needs the plaintext number.
	if actor.IsOfficer() {
		sealed, err := s.verifRepo.SealedIdentityNumber(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if sealed != "" {
			plain, err := s.sealer.Open(sealed)
			if err != nil {
				return nil, domain.NewInternalError("gagal membuka nomor identitas", err)
			}
			req.IdentityNumber = plain
		}
	}

	return req, nil
}

func (s *service) Decide(ctx context.Context, actor domain.ActingUser, id uuid.UUID, input *domain.VerificationDecisionInput) (*domain.VerificationRequest, error) {
	if !actor.IsOfficer() {
		return nil, domain.NewForbiddenError("anda tidak memiliki akses untuk memutuskan verifikasi")
	}
	if input.Status != domain.StatusComplete && input.Status != domain.StatusDeclined {
		return nil, domain.NewValidationError("status keputusan harus selesai atau ditolak")
	}
	if input.Content == "" {
		return nil, domain.NewValidationError("alasan keputusan wajib diisi")
	}

	logEntry := &domain.VerificationLog{
		Title:   input.Status.Title(),
		Content: input.Content,
	}
	req, err := s.verifRepo.Decide(ctx, id, input.Status, logEntry)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if input.Status == domain.StatusComplete {
		if err := s.userRepo.SetIdentityVerified(ctx, req.UserID); err != nil {
			return nil, err
		}
		if err := s.emails.SendVerificationApproved(ctx, user.Email, user.FullName()); err != nil {
			s.log.Error().Err(err).
				Str("request_id", id.String()).
				Msg("failed to send approval email")
		}
	} else {
		if err := s.emails.SendVerificationDeclined(ctx, user.Email, user.FullName(), input.Content); err != nil {
			s.log.Error().Err(err).
				Str("request_id", id.String()).
				Msg("failed to send decline email")
		}
	}

	s.log.Info().
		Str("request_id", id.String()).
		Int("status", int(input.Status)).
		Str("decided_by", actor.ID.String()).
		Msg("verification request decided")
	return req, nil
}
