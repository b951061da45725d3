package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapor-warga/internal/domain"
)

// UserRepository is a read-mostly projection of the auth service's tables;
// the only write this service performs is flipping the identity-verified flag
// when a verification request completes.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetRoleByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	SetIdentityVerified(ctx context.Context, userID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.phone, u.role_id,
			r.name AS role_name, r.type AS role_type,
			u.phone_verified, u.identity_verified, u.created_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("pengguna tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetRoleByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	var role domain.Role
	err := r.db.GetContext(ctx, &role, `
		SELECT id, name, description, type FROM roles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("role tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *userRepository) SetIdentityVerified(ctx context.Context, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET identity_verified = TRUE WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewNotFoundError("pengguna tidak ditemukan")
	}
	return nil
}
