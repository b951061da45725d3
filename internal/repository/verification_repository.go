package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapor-warga/internal/domain"
)

type VerificationRepository interface {
	// CreateWithLog inserts the request and its first Waiting log entry in one
	// transaction, mirroring the case-creation pattern.
	CreateWithLog(ctx context.Context, req *domain.VerificationRequest, logEntry *domain.VerificationLog, sealedIDNumber string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error)
	SealedIdentityNumber(ctx context.Context, userID uuid.UUID) (string, error)
	// Decide updates the status and appends a log entry atomically; the guard
	// rejects requests that already left Waiting.
	Decide(ctx context.Context, id uuid.UUID, status domain.Status, logEntry *domain.VerificationLog) (*domain.VerificationRequest, error)
	Logs(ctx context.Context, requestID uuid.UUID) ([]domain.VerificationLog, error)
	CountByStatus(ctx context.Context, status domain.Status) (int64, error)
}

type verificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) CreateWithLog(ctx context.Context, req *domain.VerificationRequest, logEntry *domain.VerificationLog, sealedIDNumber string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	req.StatusID = domain.StatusWaiting
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO verification_requests (id, user_id, status_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		req.ID, req.UserID, req.StatusID,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return err
	}

	logEntry.RequestID = req.ID
	logEntry.StatusID = domain.StatusWaiting
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO verification_logs (request_id, status_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		logEntry.RequestID, logEntry.StatusID, logEntry.Title, logEntry.Content,
	).Scan(&logEntry.ID, &logEntry.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET identity_number = $2 WHERE id = $1`,
		req.UserID, sealedIDNumber); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *verificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error) {
	var req domain.VerificationRequest
	err := r.db.GetContext(ctx, &req, `
		SELECT id, user_id, status_id, created_at, updated_at
		FROM verification_requests
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("permintaan verifikasi tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) SealedIdentityNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	var sealed sql.NullString
	err := r.db.GetContext(ctx, &sealed, `
		SELECT identity_number FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NewNotFoundError("pengguna tidak ditemukan")
	}
	if err != nil {
		return "", err
	}
	return sealed.String, nil
}

func (r *verificationRepository) Decide(ctx context.Context, id uuid.UUID, status domain.Status, logEntry *domain.VerificationLog) (*domain.VerificationRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var req domain.VerificationRequest
	err = tx.GetContext(ctx, &req, `
		SELECT id, user_id, status_id, created_at, updated_at
		FROM verification_requests
		WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("permintaan verifikasi tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}

	if req.StatusID.Terminal() {
		return nil, domain.NewForbiddenError("permintaan sudah diputuskan")
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE verification_requests SET status_id = $2, updated_at = NOW() WHERE id = $1`,
		id, status); err != nil {
		return nil, err
	}

	logEntry.RequestID = id
	logEntry.StatusID = status
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO verification_logs (request_id, status_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		logEntry.RequestID, logEntry.StatusID, logEntry.Title, logEntry.Content,
	).Scan(&logEntry.ID, &logEntry.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	req.StatusID = status
	return &req, nil
}

func (r *verificationRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM verification_requests WHERE status_id = $1`, status)
	return count, err
}

func (r *verificationRepository) Logs(ctx context.Context, requestID uuid.UUID) ([]domain.VerificationLog, error) {
	var logs []domain.VerificationLog
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, request_id, status_id, title, content, created_at
		FROM verification_logs
		WHERE request_id = $1
		ORDER BY created_at DESC, id DESC`, requestID)
	return logs, err
}
