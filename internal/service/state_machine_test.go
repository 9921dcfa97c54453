package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

var allStatuses = []domain.TicketStatus{
	domain.TicketStatusPendingApproval,
	domain.TicketStatusApproved,
	domain.TicketStatusOpen,
	domain.TicketStatusAssigned,
	domain.TicketStatusInProgress,
	domain.TicketStatusPending,
	domain.TicketStatusResolved,
	domain.TicketStatusClosed,
	domain.TicketStatusRejected,
	domain.TicketStatusCancelled,
	domain.TicketStatusDuplicate,
	domain.TicketStatusAwaitingChanges,
}

func TestCanTransitionMatchesTable(t *testing.T) {
	allowed := map[domain.TicketStatus][]domain.TicketStatus{
		domain.TicketStatusPendingApproval: {domain.TicketStatusApproved, domain.TicketStatusRejected, domain.TicketStatusAwaitingChanges},
		domain.TicketStatusApproved:        {domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusCancelled},
		domain.TicketStatusAssigned:        {domain.TicketStatusInProgress, domain.TicketStatusPending, domain.TicketStatusCancelled, domain.TicketStatusDuplicate},
		domain.TicketStatusOpen:            {domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusPending, domain.TicketStatusCancelled, domain.TicketStatusDuplicate},
		domain.TicketStatusInProgress:      {domain.TicketStatusPending, domain.TicketStatusResolved, domain.TicketStatusClosed, domain.TicketStatusAssigned, domain.TicketStatusCancelled, domain.TicketStatusDuplicate},
		domain.TicketStatusPending:         {domain.TicketStatusInProgress, domain.TicketStatusAssigned, domain.TicketStatusCancelled},
		domain.TicketStatusResolved:        {domain.TicketStatusClosed, domain.TicketStatusInProgress},
		domain.TicketStatusClosed:          {domain.TicketStatusInProgress},
		domain.TicketStatusRejected:        {domain.TicketStatusPendingApproval},
		domain.TicketStatusAwaitingChanges: {domain.TicketStatusPendingApproval},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, from := range []domain.TicketStatus{domain.TicketStatusCancelled, domain.TicketStatusDuplicate} {
		for _, to := range allStatuses {
			assert.Falsef(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestValidateTransitionRejectsUnknownStatus(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatorID: 1}
	actor := domain.Actor{ID: 2, Role: domain.RoleAdmin}

	err := ValidateTransition(actor, ticket, domain.TicketStatus("garbage"), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.ToDomainError(err).Code)
}

func TestValidateTransitionInvalidPairNamesBothStatuses(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatorID: 1}
	actor := domain.Actor{ID: 2, Role: domain.RoleAdmin}

	err := ValidateTransition(actor, ticket, domain.TicketStatusResolved, nil)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeInvalidTransition, domainErr.Code)
	assert.Contains(t, domainErr.Message, "open")
	assert.Contains(t, domainErr.Message, "resolved")
}

func TestApprovalDecisionsRequireMatchedReviewer(t *testing.T) {
	reviewerID := int64(7)
	ticket := &domain.Ticket{Status: domain.TicketStatusPendingApproval, CreatorID: 1}

	for _, next := range []domain.TicketStatus{
		domain.TicketStatusApproved,
		domain.TicketStatusRejected,
		domain.TicketStatusAwaitingChanges,
	} {
		t.Run(string(next), func(t *testing.T) {
			matched := domain.Actor{ID: 7, Role: domain.RoleManager}
			assert.NoError(t, ValidateTransition(matched, ticket, next, &reviewerID))

			other := domain.Actor{ID: 8, Role: domain.RoleManager}
			err := ValidateTransition(other, ticket, next, &reviewerID)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeForbidden, apperrors.ToDomainError(err).Code)

			// No approval record means nobody may decide.
			err = ValidateTransition(matched, ticket, next, nil)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeForbidden, apperrors.ToDomainError(err).Code)
		})
	}
}

func TestOnlyAdminsReopenClosedTickets(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusClosed, CreatorID: 1}

	err := ValidateTransition(domain.Actor{ID: 5, Role: domain.RoleTechnician}, ticket, domain.TicketStatusInProgress, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.ToDomainError(err).Code)

	assert.NoError(t, ValidateTransition(domain.Actor{ID: 5, Role: domain.RoleAdmin}, ticket, domain.TicketStatusInProgress, nil))
}

func TestRequesterMayOnlyTransitionOwnTickets(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatorID: 1}

	assert.NoError(t, ValidateTransition(domain.Actor{ID: 1, Role: domain.RoleRequester}, ticket, domain.TicketStatusCancelled, nil))

	err := ValidateTransition(domain.Actor{ID: 2, Role: domain.RoleRequester}, ticket, domain.TicketStatusCancelled, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.ToDomainError(err).Code)
}

func TestContentEditable(t *testing.T) {
	owner := domain.Actor{ID: 1, Role: domain.RoleRequester}
	stranger := domain.Actor{ID: 2, Role: domain.RoleRequester}
	tech := domain.Actor{ID: 3, Role: domain.RoleTechnician}

	tests := []struct {
		name   string
		actor  domain.Actor
		status domain.TicketStatus
		want   bool
	}{
		{"owner open", owner, domain.TicketStatusOpen, true},
		{"owner awaiting changes", owner, domain.TicketStatusAwaitingChanges, true},
		{"owner in progress", owner, domain.TicketStatusInProgress, false},
		{"owner resolved", owner, domain.TicketStatusResolved, false},
		{"stranger open", stranger, domain.TicketStatusOpen, false},
		{"technician resolved", tech, domain.TicketStatusResolved, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &domain.Ticket{Status: tt.status, CreatorID: 1}
			assert.Equal(t, tt.want, ContentEditable(tt.actor, ticket))
		})
	}
}

func TestResubmissionApplies(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusAwaitingChanges, CreatorID: 1}
	owner := domain.Actor{ID: 1, Role: domain.RoleRequester}

	assert.True(t, ResubmissionApplies(owner, ticket, nil))

	explicit := domain.TicketStatusPendingApproval
	assert.False(t, ResubmissionApplies(owner, ticket, &explicit), "explicit status suppresses the implicit transition")

	assert.False(t, ResubmissionApplies(domain.Actor{ID: 2, Role: domain.RoleRequester}, ticket, nil))
	assert.False(t, ResubmissionApplies(domain.Actor{ID: 1, Role: domain.RoleTechnician}, ticket, nil))

	open := &domain.Ticket{Status: domain.TicketStatusOpen, CreatorID: 1}
	assert.False(t, ResubmissionApplies(owner, open, nil))
}
