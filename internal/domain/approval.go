package domain

import "time"

// ApprovalStatus enumerates decision states for business approvals.
type ApprovalStatus string

const (
	ApprovalStatusPending        ApprovalStatus = "pending"
	ApprovalStatusApproved       ApprovalStatus = "approved"
	ApprovalStatusRejected       ApprovalStatus = "rejected"
	ApprovalStatusReviewRequired ApprovalStatus = "review_required"
)

// ApprovalRecord abstracts over the two approval mechanisms that have
// existed historically. The unit-routed BusinessApproval row is the
// authoritative variant; LegacyApproval only interprets old tickets that
// predate the approvals table.
type ApprovalRecord interface {
	ApprovalTicketID() int64
	IsPending() bool
	Reviewer() *int64
}

// BusinessApproval gates a ticket's progress past pending_approval.
// At most one row exists per ticket, created lazily the first time
// approval becomes required.
type BusinessApproval struct {
	ID         int64
	TicketID   int64
	ReviewerID int64
	Status     ApprovalStatus
	Comments   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DecidedAt  *time.Time
}

func (a *BusinessApproval) ApprovalTicketID() int64 { return a.TicketID }

func (a *BusinessApproval) IsPending() bool { return a.Status == ApprovalStatusPending }

func (a *BusinessApproval) Reviewer() *int64 {
	id := a.ReviewerID
	return &id
}

// LegacyApproval is the pre-approvals-table mechanism: a ticket sitting
// in the old "pending-approval" status string with no recorded decision.
// Read-only; new approvals are never created in this form.
type LegacyApproval struct {
	TicketID  int64
	ManagerID *int64
	Decided   bool
}

func (a *LegacyApproval) ApprovalTicketID() int64 { return a.TicketID }

func (a *LegacyApproval) IsPending() bool { return !a.Decided }

func (a *LegacyApproval) Reviewer() *int64 { return a.ManagerID }
