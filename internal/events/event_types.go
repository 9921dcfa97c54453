package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketResubmitted       EventType = "ticket_resubmitted"
	EventTicketApprovalRequested EventType = "ticket_approval_requested"
	EventTicketAssigned          EventType = "ticket_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CreatorID int64                 `json:"creator_id"`
	Status    domain.TicketStatus   `json:"status"`
	Priority  domain.TicketPriority `json:"priority"`
	Title     string                `json:"title"`
}

// TicketStatusChangedPayload payload. CreatorID is the notification
// recipient for the generic status-change notice.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	CreatorID int64               `json:"creator_id"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketResubmittedPayload payload. ReviewerID is the original reviewer
// who receives the resubmission notice.
type TicketResubmittedPayload struct {
	ReviewerID int64 `json:"reviewer_id"`
	CreatorID  int64 `json:"creator_id"`
}

// TicketApprovalRequestedPayload payload.
type TicketApprovalRequestedPayload struct {
	ReviewerID int64                 `json:"reviewer_id"`
	CreatorID  int64                 `json:"creator_id"`
	Priority   domain.TicketPriority `json:"priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID *int64 `json:"technician_id,omitempty"`
}
