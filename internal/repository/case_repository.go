package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lapor-warga/internal/domain"
)

// TransitionFunc runs inside the transition transaction with the case row
// locked. It validates the guard, mutates the case in place and returns the
// activity row to append; any error aborts the transaction.
type TransitionFunc func(c *domain.Case) (*domain.CaseActivity, error)

type CaseRepository interface {
	// CreateWithActivity inserts the case together with its first activity in
	// one transaction, allocating the date-scoped reference number under an
	// advisory lock.
	CreateWithActivity(ctx context.Context, c *domain.Case, act *domain.CaseActivity) error
	// Transition re-reads the case FOR UPDATE, applies fn and persists the new
	// status plus exactly one activity row atomically.
	Transition(ctx context.Context, caseID int64, fn TransitionFunc) (*domain.Case, *domain.CaseActivity, error)

	GetByID(ctx context.Context, id int64) (*domain.Case, error)
	ListByUser(ctx context.Context, kind domain.CaseKind, userID uuid.UUID) ([]domain.Case, error)
	List(ctx context.Context, filter domain.CaseFilter, params domain.PaginationParams) ([]domain.Case, int64, error)
	Latest(ctx context.Context, kind domain.CaseKind, limit int) ([]domain.Case, error)
	CountByDay(ctx context.Context, kind domain.CaseKind, day time.Time) (int64, error)
	// CountActivityPerDay aggregates activity rows per (day, status) inside
	// [from, to); assignedRoleType narrows to cases assigned to that role type.
	CountActivityPerDay(ctx context.Context, kind domain.CaseKind, from, to time.Time, assignedRoleType string) ([]domain.ActivityDayCount, error)
	CountInRange(ctx context.Context, kind domain.CaseKind, from, to time.Time, assignedRoleType string) (int64, error)
	CountByStatus(ctx context.Context, kind domain.CaseKind, status domain.Status, assignedRoleType string) (int64, error)
	Activities(ctx context.Context, caseID int64) ([]domain.CaseActivity, error)

	Rate(ctx context.Context, caseID int64, userID uuid.UUID, score int, note *string) (*domain.Case, error)
}

type caseRepository struct {
	db *sqlx.DB
}

func NewCaseRepository(db *sqlx.DB) CaseRepository {
	return &caseRepository{db: db}
}

const caseColumns = `id, kind, ref_id, title, description, category_id, priority_id, status_id,
	user_id, assigned_role_id, detail_location, gps_address, lat, long, village,
	is_verified, feedback_count, feedback_avg, created_at, updated_at`

// refLockKey derives the advisory-lock key serializing reference allocation
// for one (kind, day) bucket.
func refLockKey(kind domain.CaseKind, day time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "case_ref:%s:%s", kind, day.Format("060102"))
	return int64(h.Sum64())
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *caseRepository) CreateWithActivity(ctx context.Context, c *domain.Case, act *domain.CaseActivity) error {
	err := r.createWithActivity(ctx, c, act)
	if isUniqueViolation(err) {
		// The advisory lock makes collisions unreachable in practice; the
		// unique index on (kind, ref_id) is the backstop. One retry
		// recomputes the sequence.
		err = r.createWithActivity(ctx, c, act)
	}
	return err
}

func (r *caseRepository) createWithActivity(ctx context.Context, c *domain.Case, act *domain.CaseActivity) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	// Serialize same-day same-kind creations; released at commit/rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, refLockKey(c.Kind, now)); err != nil {
		return err
	}

	var count int64
	err = tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM cases
		WHERE kind = $1 AND created_at >= $2 AND created_at < $3`,
		c.Kind,
		time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location()),
	)
	if err != nil {
		return err
	}

	c.RefID = domain.FormatReference(c.Kind, now, count+1)
	c.StatusID = domain.StatusWaiting

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO cases (kind, ref_id, title, description, category_id, priority_id, status_id,
			user_id, detail_location, gps_address, lat, long, village)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		c.Kind, c.RefID, c.Title, c.Description, c.CategoryID, c.PriorityID, c.StatusID,
		c.UserID, c.DetailLocation, c.GPSAddress, c.Lat, c.Long, c.Village,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	act.CaseID = c.ID
	act.StatusID = domain.StatusWaiting
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO case_activities (case_id, title, description, notes, status_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		act.CaseID, act.Title, act.Description, act.Notes, act.StatusID, act.UserID,
	).Scan(&act.ID, &act.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *caseRepository) Transition(ctx context.Context, caseID int64, fn TransitionFunc) (*domain.Case, *domain.CaseActivity, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var c domain.Case
	err = tx.GetContext(ctx, &c, `SELECT `+caseColumns+` FROM cases WHERE id = $1 FOR UPDATE`, caseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.NewNotFoundError("laporan tidak ditemukan")
	}
	if err != nil {
		return nil, nil, err
	}

	act, err := fn(&c)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cases
		SET status_id = $2, is_verified = $3, assigned_role_id = $4, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.StatusID, c.IsVerified, c.AssignedRoleID,
	)
	if err != nil {
		return nil, nil, err
	}

	act.CaseID = c.ID
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO case_activities (case_id, title, description, notes, status_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		act.CaseID, act.Title, act.Description, act.Notes, act.StatusID, act.UserID,
	).Scan(&act.ID, &act.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &c, act, nil
}

func (r *caseRepository) GetByID(ctx context.Context, id int64) (*domain.Case, error) {
	var c domain.Case
	err := r.db.GetContext(ctx, &c, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("laporan tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) ListByUser(ctx context.Context, kind domain.CaseKind, userID uuid.UUID) ([]domain.Case, error) {
	var cases []domain.Case
	err := r.db.SelectContext(ctx, &cases, `
		SELECT `+caseColumns+` FROM cases
		WHERE kind = $1 AND user_id = $2
		ORDER BY created_at DESC`, kind, userID)
	return cases, err
}

func (r *caseRepository) List(ctx context.Context, filter domain.CaseFilter, params domain.PaginationParams) ([]domain.Case, int64, error) {
	params.Validate()

	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Kind != "" {
		where = append(where, fmt.Sprintf("kind = %s", arg(filter.Kind)))
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		q := arg(filter.Query)
		where = append(where, fmt.Sprintf("(title ILIKE %s OR ref_id = %s)", p, q))
	}
	if len(filter.StatusIDs) > 0 {
		where = append(where, fmt.Sprintf("status_id = ANY(%s)", arg(pq.Array(filter.StatusIDs))))
	}
	if len(filter.Categories) > 0 {
		where = append(where, fmt.Sprintf("category_id = ANY(%s)", arg(pq.Array(filter.Categories))))
	}
	if len(filter.Priorities) > 0 {
		where = append(where, fmt.Sprintf("priority_id = ANY(%s)", arg(pq.Array(filter.Priorities))))
	}
	if filter.AssignedRoleType != "" {
		where = append(where, fmt.Sprintf(
			"assigned_role_id IN (SELECT id FROM roles WHERE type = %s)", arg(filter.AssignedRoleType)))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM cases WHERE `+cond, args...); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if !filter.OrderDesc {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM cases WHERE %s ORDER BY created_at %s LIMIT %s OFFSET %s`,
		caseColumns, cond, order, arg(params.PageSize), arg(params.Offset()))

	var cases []domain.Case
	err := r.db.SelectContext(ctx, &cases, query, args...)
	return cases, total, err
}

func (r *caseRepository) Latest(ctx context.Context, kind domain.CaseKind, limit int) ([]domain.Case, error) {
	var cases []domain.Case
	err := r.db.SelectContext(ctx, &cases, `
		SELECT `+caseColumns+` FROM cases
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2`, kind, limit)
	return cases, err
}

func (r *caseRepository) CountByDay(ctx context.Context, kind domain.CaseKind, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM cases
		WHERE kind = $1 AND created_at >= $2 AND created_at < $3`,
		kind, start, start.AddDate(0, 0, 1))
	return count, err
}

func (r *caseRepository) CountActivityPerDay(ctx context.Context, kind domain.CaseKind, from, to time.Time, assignedRoleType string) ([]domain.ActivityDayCount, error) {
	query := `
		SELECT date_trunc('day', a.created_at) AS day, a.status_id, COUNT(*) AS count
		FROM case_activities a
		JOIN cases c ON c.id = a.case_id
		WHERE c.kind = $1 AND a.created_at >= $2 AND a.created_at < $3`
	args := []interface{}{kind, from, to}
	if assignedRoleType != "" {
		query += ` AND c.assigned_role_id IN (SELECT id FROM roles WHERE type = $4)`
		args = append(args, assignedRoleType)
	}
	query += ` GROUP BY 1, 2`

	var counts []domain.ActivityDayCount
	err := r.db.SelectContext(ctx, &counts, query, args...)
	return counts, err
}

func (r *caseRepository) CountInRange(ctx context.Context, kind domain.CaseKind, from, to time.Time, assignedRoleType string) (int64, error) {
	query := `SELECT COUNT(*) FROM cases WHERE kind = $1 AND created_at >= $2 AND created_at < $3`
	args := []interface{}{kind, from, to}
	if assignedRoleType != "" {
		query += ` AND assigned_role_id IN (SELECT id FROM roles WHERE type = $4)`
		args = append(args, assignedRoleType)
	}

	var count int64
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

func (r *caseRepository) CountByStatus(ctx context.Context, kind domain.CaseKind, status domain.Status, assignedRoleType string) (int64, error) {
	query := `SELECT COUNT(*) FROM cases WHERE kind = $1 AND status_id = $2`
	args := []interface{}{kind, status}
	if assignedRoleType != "" {
		query += ` AND assigned_role_id IN (SELECT id FROM roles WHERE type = $3)`
		args = append(args, assignedRoleType)
	}

	var count int64
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

func (r *caseRepository) Activities(ctx context.Context, caseID int64) ([]domain.CaseActivity, error) {
	var acts []domain.CaseActivity
	err := r.db.SelectContext(ctx, &acts, `
		SELECT id, case_id, title, description, notes, status_id, user_id, created_at
		FROM case_activities
		WHERE case_id = $1
		ORDER BY created_at DESC, id DESC`, caseID)
	return acts, err
}

func (r *caseRepository) Rate(ctx context.Context, caseID int64, userID uuid.UUID, score int, note *string) (*domain.Case, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var c domain.Case
	err = tx.GetContext(ctx, &c, `SELECT `+caseColumns+` FROM cases WHERE id = $1 FOR UPDATE`, caseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("laporan tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}

	var rated bool
	if err := tx.GetContext(ctx, &rated, `
		SELECT EXISTS (SELECT 1 FROM case_feedback WHERE case_id = $1 AND user_id = $2)`,
		caseID, userID); err != nil {
		return nil, err
	}
	if rated {
		return nil, domain.NewForbiddenError("anda sudah memberi penilaian")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO case_feedback (case_id, user_id, score, note)
		VALUES ($1, $2, $3, $4)`,
		caseID, userID, score, note); err != nil {
		return nil, err
	}

	// Folding average, part of the client contract: the first score stands
	// alone, later ones halve-in, rounded to one decimal.
	avg := float64(score)
	if c.FeedbackCount > 0 {
		avg = (c.FeedbackAvg + float64(score)) / 2
	}
	c.FeedbackAvg = float64(int(avg*10+0.5)) / 10
	c.FeedbackCount++

	if _, err := tx.ExecContext(ctx, `
		UPDATE cases SET feedback_count = $2, feedback_avg = $3, updated_at = NOW() WHERE id = $1`,
		c.ID, c.FeedbackCount, c.FeedbackAvg); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &c, nil
}
