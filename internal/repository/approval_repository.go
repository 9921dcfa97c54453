package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ApprovalRepository reads approval records outside the update
// transaction (handler reads, reviewer inboxes).
type ApprovalRepository interface {
	GetByTicket(ctx context.Context, ticketID int64) (*domain.BusinessApproval, error)
	ListPendingForReviewer(ctx context.Context, reviewerID int64, limit, offset int) ([]domain.BusinessApproval, error)
}

type approvalRepository struct {
	pool *pgxpool.Pool
}

// NewApprovalRepository instantiates repository.
func NewApprovalRepository(pool *pgxpool.Pool) ApprovalRepository {
	return &approvalRepository{pool: pool}
}

const approvalColumns = `id, ticket_id, reviewer_id, status, comments, created_at, updated_at, decided_at`

func (r *approvalRepository) GetByTicket(ctx context.Context, ticketID int64) (*domain.BusinessApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM business_approvals WHERE ticket_id=$1`
	var approval domain.BusinessApproval
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&approval.ID,
		&approval.TicketID,
		&approval.ReviewerID,
		&approval.Status,
		&approval.Comments,
		&approval.CreatedAt,
		&approval.UpdatedAt,
		&approval.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) ListPendingForReviewer(ctx context.Context, reviewerID int64, limit, offset int) ([]domain.BusinessApproval, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + approvalColumns + ` FROM business_approvals
              WHERE reviewer_id=$1 AND status='pending'
              ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, reviewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.BusinessApproval
	for rows.Next() {
		var approval domain.BusinessApproval
		if err := rows.Scan(
			&approval.ID,
			&approval.TicketID,
			&approval.ReviewerID,
			&approval.Status,
			&approval.Comments,
			&approval.CreatedAt,
			&approval.UpdatedAt,
			&approval.DecidedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, approval)
	}
	return result, rows.Err()
}
