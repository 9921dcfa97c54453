package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketTx is a single ticket-mutation transaction. LockTicket takes an
// exclusive row lock, so at most one mutation per ticket is in flight;
// a concurrent caller blocks until commit or rollback.
type TicketTx interface {
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
	LockTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket *domain.Ticket) error
	DeleteTicket(ctx context.Context, id int64) error

	ListFieldValues(ctx context.Context, ticketID int64) ([]domain.CustomFieldValue, error)
	ReplaceFieldValues(ctx context.Context, ticketID int64, values []domain.CustomFieldValue) error

	GetApproval(ctx context.Context, ticketID int64) (*domain.BusinessApproval, error)
	CreateApproval(ctx context.Context, approval *domain.BusinessApproval) error
	UpdateApproval(ctx context.Context, approval *domain.BusinessApproval) error

	AddHistory(ctx context.Context, entry *domain.TicketHistory) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxStore opens ticket transactions.
type TxStore interface {
	Begin(ctx context.Context) (TicketTx, error)
}

type pgxTxStore struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxStore creates the pgx-backed transaction store. lockTimeout bounds
// row lock waits; expiry surfaces as SQLSTATE 55P03.
func NewTxStore(pool *pgxpool.Pool, lockTimeout time.Duration) TxStore {
	return &pgxTxStore{pool: pool, lockTimeout: lockTimeout}
}

func (s *pgxTxStore) Begin(ctx context.Context) (TicketTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
	}
	return &pgxTicketTx{tx: tx}, nil
}

type pgxTicketTx struct {
	tx pgx.Tx
}

func (t *pgxTicketTx) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, priority, impact, request_type, status,
            sla_due_at, requester_root_cause, technician_root_cause,
            requester_issue_category, technician_issue_category,
            creator_id, technician_id, template_id, service_item_id,
            creator_unit_id, creator_department_id,
            is_kasda, requires_business_approval, is_classification_locked)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING id, created_at, updated_at`
	return t.tx.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Impact,
		ticket.RequestType,
		ticket.Status,
		ticket.SLADueAt,
		ticket.RequesterRootCause,
		ticket.TechnicianRootCause,
		ticket.RequesterIssueCategory,
		ticket.TechnicianIssueCategory,
		ticket.CreatorID,
		ticket.TechnicianID,
		ticket.TemplateID,
		ticket.ServiceItemID,
		ticket.CreatorUnitID,
		ticket.CreatorDepartmentID,
		ticket.IsKasda,
		ticket.RequiresBusinessApproval,
		ticket.IsClassificationLocked,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (t *pgxTicketTx) LockTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 FOR UPDATE`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(t.tx.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *pgxTicketTx) UpdateTicket(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, impact=$4, request_type=$5,
            status=$6, sla_due_at=$7,
            requester_root_cause=$8, technician_root_cause=$9,
            requester_issue_category=$10, technician_issue_category=$11,
            technician_id=$12, template_id=$13, service_item_id=$14,
            is_kasda=$15, requires_business_approval=$16, is_classification_locked=$17,
            resolved_at=$18, updated_at=NOW()
        WHERE id=$19`
	cmd, err := t.tx.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Impact,
		ticket.RequestType,
		ticket.Status,
		ticket.SLADueAt,
		ticket.RequesterRootCause,
		ticket.TechnicianRootCause,
		ticket.RequesterIssueCategory,
		ticket.TechnicianIssueCategory,
		ticket.TechnicianID,
		ticket.TemplateID,
		ticket.ServiceItemID,
		ticket.IsKasda,
		ticket.RequiresBusinessApproval,
		ticket.IsClassificationLocked,
		ticket.ResolvedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *pgxTicketTx) DeleteTicket(ctx context.Context, id int64) error {
	// Field values, approvals and history cascade via foreign keys.
	cmd, err := t.tx.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *pgxTicketTx) ListFieldValues(ctx context.Context, ticketID int64) ([]domain.CustomFieldValue, error) {
	const query = `
        SELECT ticket_id, field_definition_id, value, created_at, updated_at
        FROM custom_field_values WHERE ticket_id=$1 ORDER BY field_definition_id`
	rows, err := t.tx.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.CustomFieldValue
	for rows.Next() {
		var value domain.CustomFieldValue
		if err := rows.Scan(&value.TicketID, &value.FieldDefinitionID, &value.Value, &value.CreatedAt, &value.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, rows.Err()
}

// ReplaceFieldValues swaps the ticket's custom values wholesale:
// delete-then-insert scoped to the ticket.
func (t *pgxTicketTx) ReplaceFieldValues(ctx context.Context, ticketID int64, values []domain.CustomFieldValue) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM custom_field_values WHERE ticket_id=$1`, ticketID); err != nil {
		return err
	}
	for _, value := range values {
		const query = `
            INSERT INTO custom_field_values (ticket_id, field_definition_id, value)
            VALUES ($1,$2,$3)`
		if _, err := t.tx.Exec(ctx, query, ticketID, value.FieldDefinitionID, value.Value); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgxTicketTx) GetApproval(ctx context.Context, ticketID int64) (*domain.BusinessApproval, error) {
	const query = `
        SELECT id, ticket_id, reviewer_id, status, comments, created_at, updated_at, decided_at
        FROM business_approvals WHERE ticket_id=$1`
	var approval domain.BusinessApproval
	if err := t.tx.QueryRow(ctx, query, ticketID).Scan(
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

func (t *pgxTicketTx) CreateApproval(ctx context.Context, approval *domain.BusinessApproval) error {
	const query = `
        INSERT INTO business_approvals (ticket_id, reviewer_id, status, comments)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return t.tx.QueryRow(ctx, query,
		approval.TicketID,
		approval.ReviewerID,
		approval.Status,
		approval.Comments,
	).Scan(&approval.ID, &approval.CreatedAt, &approval.UpdatedAt)
}

func (t *pgxTicketTx) UpdateApproval(ctx context.Context, approval *domain.BusinessApproval) error {
	const query = `
        UPDATE business_approvals SET reviewer_id=$1, status=$2, comments=$3, decided_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := t.tx.Exec(ctx, query,
		approval.ReviewerID,
		approval.Status,
		approval.Comments,
		approval.DecidedAt,
		approval.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *pgxTicketTx) AddHistory(ctx context.Context, entry *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, changed_by, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return t.tx.QueryRow(ctx, query,
		entry.TicketID,
		entry.ChangedBy,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (t *pgxTicketTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTicketTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
