package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// DirectoryRepository reads the organizational hierarchy for approval
// routing. Ownership of units and departments is external; only reads
// happen here.
type DirectoryRepository interface {
	// FindReviewers returns available business reviewers for one tier of
	// the fallback chain, admins before managers, ties broken by id.
	FindReviewers(ctx context.Context, scope domain.ReviewerScope, unitID, departmentID *int64) ([]domain.User, error)
}

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository instantiates repository.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

const reviewerColumns = `id, name, email, password_hash, role, status, unit_id, department_id,
               is_business_reviewer, is_available, created_at, updated_at`

const reviewerOrder = `ORDER BY CASE role WHEN 'admin' THEN 0 ELSE 1 END, id`

func (r *directoryRepository) FindReviewers(ctx context.Context, scope domain.ReviewerScope, unitID, departmentID *int64) ([]domain.User, error) {
	base := `SELECT ` + reviewerColumns + ` FROM users
             WHERE role IN ('manager','admin') AND is_business_reviewer AND is_available AND status='active'`

	var (
		query string
		args  []any
	)
	switch scope {
	case domain.ReviewerScopeUnit:
		if unitID == nil {
			return nil, nil
		}
		query = base + ` AND unit_id=$1 ` + reviewerOrder
		args = []any{*unitID}
	case domain.ReviewerScopeDepartment:
		if departmentID == nil {
			return nil, nil
		}
		query = base + ` AND department_id=$1 ` + reviewerOrder
		args = []any{*departmentID}
	case domain.ReviewerScopeGlobal:
		query = base + ` ` + reviewerOrder
	default:
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
