package service

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// allowedTransitions is the ticket lifecycle table. Statuses absent as
// keys (cancelled, duplicate) are terminal. Role preconditions are
// checked separately in ValidateTransition.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPendingApproval: {
		domain.TicketStatusApproved,
		domain.TicketStatusRejected,
		domain.TicketStatusAwaitingChanges,
	},
	domain.TicketStatusApproved: {
		domain.TicketStatusAssigned,
		domain.TicketStatusInProgress,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusAssigned: {
		domain.TicketStatusInProgress,
		domain.TicketStatusPending,
		domain.TicketStatusCancelled,
		domain.TicketStatusDuplicate,
	},
	domain.TicketStatusOpen: {
		domain.TicketStatusAssigned,
		domain.TicketStatusInProgress,
		domain.TicketStatusPending,
		domain.TicketStatusCancelled,
		domain.TicketStatusDuplicate,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusPending,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
		domain.TicketStatusAssigned,
		domain.TicketStatusCancelled,
		domain.TicketStatusDuplicate,
	},
	domain.TicketStatusPending: {
		domain.TicketStatusInProgress,
		domain.TicketStatusAssigned,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusResolved: {
		domain.TicketStatusClosed,
		domain.TicketStatusInProgress,
	},
	domain.TicketStatusClosed: {
		domain.TicketStatusInProgress,
	},
	domain.TicketStatusRejected: {
		domain.TicketStatusPendingApproval,
	},
	domain.TicketStatusAwaitingChanges: {
		domain.TicketStatusPendingApproval,
	},
}

// KnownStatus reports whether s is one of the lifecycle states.
func KnownStatus(s domain.TicketStatus) bool {
	if _, ok := allowedTransitions[s]; ok {
		return true
	}
	return s.IsTerminal()
}

// CanTransition consults the table only, no role checks.
func CanTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// approvalDecisions are the pending_approval exits reserved for the
// matched reviewer.
var approvalDecisions = map[domain.TicketStatus]bool{
	domain.TicketStatusApproved:        true,
	domain.TicketStatusRejected:        true,
	domain.TicketStatusAwaitingChanges: true,
}

// ValidateTransition checks both the transition table and the actor's
// role preconditions. reviewerID is the ticket's matched reviewer when
// an approval record exists.
func ValidateTransition(actor domain.Actor, ticket *domain.Ticket, next domain.TicketStatus, reviewerID *int64) error {
	if !KnownStatus(next) {
		return apperrors.NewInvalidTransition(string(ticket.Status), string(next))
	}
	if !CanTransition(ticket.Status, next) {
		return apperrors.NewInvalidTransition(string(ticket.Status), string(next))
	}

	if ticket.Status == domain.TicketStatusPendingApproval && approvalDecisions[next] {
		if reviewerID == nil || *reviewerID != actor.ID {
			return apperrors.NewForbidden("only the assigned reviewer may decide this ticket")
		}
		return nil
	}

	// Only admins may force a closed ticket back open.
	if ticket.Status == domain.TicketStatusClosed && next == domain.TicketStatusInProgress {
		if actor.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("only admins may reopen a closed ticket")
		}
		return nil
	}

	if !actor.Role.IsStaff() && actor.ID != ticket.CreatorID {
		return apperrors.NewForbidden("not permitted to change this ticket's status")
	}
	return nil
}

// ContentEditable reports whether an actor may edit ticket content.
// Owners may edit while the ticket is open or awaiting changes;
// technicians and admins edit regardless of status.
func ContentEditable(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.Role.IsStaff() {
		return true
	}
	if actor.ID != ticket.CreatorID {
		return false
	}
	return ticket.Status == domain.TicketStatusOpen || ticket.Status == domain.TicketStatusAwaitingChanges
}

// ResubmissionApplies reports whether an owner edit must auto-transition
// the ticket back to pending_approval. This is the one transition fired
// by a content edit instead of an explicit status request.
func ResubmissionApplies(actor domain.Actor, ticket *domain.Ticket, explicitStatus *domain.TicketStatus) bool {
	return explicitStatus == nil &&
		ticket.Status == domain.TicketStatusAwaitingChanges &&
		actor.ID == ticket.CreatorID &&
		!actor.Role.IsStaff()
}
