package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lapor-warga/internal/domain"
)

type SavedCaseRepository interface {
	Save(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.SavedCase, error)
	Unsave(ctx context.Context, userID uuid.UUID, caseID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedCase, error)
	IsSaved(ctx context.Context, userID uuid.UUID, caseID int64) (bool, error)
}

type savedCaseRepository struct {
	db *sqlx.DB
}

func NewSavedCaseRepository(db *sqlx.DB) SavedCaseRepository {
	return &savedCaseRepository{db: db}
}

func (r *savedCaseRepository) Save(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.SavedCase, error) {
	saved := &domain.SavedCase{UserID: userID, CaseID: caseID}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO saved_cases (user_id, case_id)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		userID, caseID,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, domain.NewConflictError("laporan sudah disimpan")
			case "23503":
				return nil, domain.NewNotFoundError("laporan tidak ditemukan")
			}
		}
		return nil, err
	}
	return saved, nil
}

func (r *savedCaseRepository) Unsave(ctx context.Context, userID uuid.UUID, caseID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM saved_cases WHERE user_id = $1 AND case_id = $2`, userID, caseID)
	return err
}

func (r *savedCaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedCase, error) {
	rows := []struct {
		domain.SavedCase
		CaseRow domain.Case `db:"case"`
	}{}

	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.id, s.user_id, s.case_id, s.created_at,
			c.id "case.id", c.kind "case.kind", c.ref_id "case.ref_id", c.title "case.title",
			c.description "case.description", c.category_id "case.category_id",
			c.priority_id "case.priority_id", c.status_id "case.status_id",
			c.user_id "case.user_id", c.assigned_role_id "case.assigned_role_id",
			c.detail_location "case.detail_location", c.gps_address "case.gps_address",
			c.lat "case.lat", c.long "case.long", c.village "case.village",
			c.is_verified "case.is_verified", c.feedback_count "case.feedback_count",
			c.feedback_avg "case.feedback_avg", c.created_at "case.created_at",
			c.updated_at "case.updated_at"
		FROM saved_cases s
		JOIN cases c ON c.id = s.case_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	saved := make([]domain.SavedCase, 0, len(rows))
	for i := range rows {
		s := rows[i].SavedCase
		c := rows[i].CaseRow
		s.Case = &c
		saved = append(saved, s)
	}
	return saved, nil
}

func (r *savedCaseRepository) IsSaved(ctx context.Context, userID uuid.UUID, caseID int64) (bool, error) {
	var saved bool
	err := r.db.GetContext(ctx, &saved, `
		SELECT EXISTS (SELECT 1 FROM saved_cases WHERE user_id = $1 AND case_id = $2)`,
		userID, caseID)
	return saved, err
}
