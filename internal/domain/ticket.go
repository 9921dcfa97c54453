package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPendingApproval TicketStatus = "pending_approval"
	TicketStatusApproved        TicketStatus = "approved"
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusAssigned        TicketStatus = "assigned"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusPending         TicketStatus = "pending"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
	TicketStatusRejected        TicketStatus = "rejected"
	TicketStatusCancelled       TicketStatus = "cancelled"
	TicketStatusDuplicate       TicketStatus = "duplicate"
	TicketStatusAwaitingChanges TicketStatus = "awaiting-changes"
)

// IsTerminal reports whether no further transitions are accepted.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCancelled || s == TicketStatusDuplicate
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// BusinessImpact is a severity classification distinct from priority.
type BusinessImpact string

const (
	BusinessImpactLow      BusinessImpact = "low"
	BusinessImpactMedium   BusinessImpact = "medium"
	BusinessImpactHigh     BusinessImpact = "high"
	BusinessImpactCritical BusinessImpact = "critical"
)

// RequestType categorizes the nature of a ticket.
type RequestType string

const (
	RequestTypeIncident       RequestType = "incident"
	RequestTypeServiceRequest RequestType = "service_request"
	RequestTypeChange         RequestType = "change"
	RequestTypeProblem        RequestType = "problem"
)

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Priority    TicketPriority
	Impact      BusinessImpact
	RequestType RequestType
	Status      TicketStatus

	SLADueAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time

	// Classification: requester and technician set their values
	// independently; the technician value wins once present.
	RequesterRootCause      *string
	TechnicianRootCause     *string
	RequesterIssueCategory  *string
	TechnicianIssueCategory *string

	CreatorID     int64
	TechnicianID  *int64
	TemplateID    *int64
	ServiceItemID *int64

	// Denormalized from the creator for approval routing.
	CreatorUnitID       *int64
	CreatorDepartmentID *int64

	IsKasda                  bool
	RequiresBusinessApproval bool
	IsClassificationLocked   bool
}

// ConfirmedRootCause returns the technician root cause if set, else the
// requester's.
func (t *Ticket) ConfirmedRootCause() *string {
	if t.TechnicianRootCause != nil {
		return t.TechnicianRootCause
	}
	return t.RequesterRootCause
}

// ConfirmedIssueCategory returns the technician issue category if set,
// else the requester's.
func (t *Ticket) ConfirmedIssueCategory() *string {
	if t.TechnicianIssueCategory != nil {
		return t.TechnicianIssueCategory
	}
	return t.RequesterIssueCategory
}

// IsRegulated reports whether the ticket falls under the stricter
// regulated (KASDA/business) SLA class.
func (t *Ticket) IsRegulated() bool {
	return t.IsKasda || t.RequiresBusinessApproval
}
