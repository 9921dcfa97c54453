package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// NoChangesMessage tags the idempotent no-op result.
const NoChangesMessage = "No changes detected."

// TicketService orchestrates ticket mutations: it owns the transaction,
// the row lock, field validation, transition checking, SLA computation
// and approval routing.
type TicketService struct {
	txStore    repository.TxStore
	tickets    repository.TicketRepository
	users      repository.UserRepository
	fieldDefs  repository.FieldDefinitionRepository
	validator  *FieldValidator
	router     *ApprovalRouter
	sla        *SLACalculator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	exposeErrs bool
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TxStore      repository.TxStore
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	FieldDefRepo repository.FieldDefinitionRepository
	Validator    *FieldValidator
	Router       *ApprovalRouter
	SLA          *SLACalculator
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	ExposeDBErrs bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		txStore:    deps.TxStore,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		fieldDefs:  deps.FieldDefRepo,
		validator:  deps.Validator,
		router:     deps.Router,
		sla:        deps.SLA,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		exposeErrs: deps.ExposeDBErrs,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title            string
	Description      string
	Priority         domain.TicketPriority
	Impact           domain.BusinessImpact
	RequestType      domain.RequestType
	TemplateID       *int64
	ServiceItemID    *int64
	IsKasda          bool
	ApprovalOverride bool
	FieldValues      []SubmittedFieldValue
}

// TicketUpdateInput carries requested changes; nil pointers mean
// "leave unchanged".
type TicketUpdateInput struct {
	Title         *string
	Description   *string
	Priority      *domain.TicketPriority
	Impact        *domain.BusinessImpact
	RequestType   *domain.RequestType
	Status        *domain.TicketStatus
	TechnicianID  *int64
	RootCause     *string
	IssueCategory *string
	TemplateID    *int64
	ClearTemplate bool
	FieldValues   []SubmittedFieldValue
	// FieldValuesSet distinguishes "replace with empty set" from
	// "values not part of the payload".
	FieldValuesSet bool
	Comment        *string
}

// TicketUpdateResult is the outcome of an update.
type TicketUpdateResult struct {
	Ticket    *domain.Ticket
	NoChanges bool
	Message   string
}

// CreateTicket validates the payload, decides the initial status via the
// approval policy, routes a reviewer when approval is required and
// persists everything in one transaction.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	creator, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": actor.ID})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.validator.Validate(ctx, input.TemplateID, input.FieldValues); err != nil {
		return nil, err
	}

	templateRequires := false
	if input.TemplateID != nil {
		template, err := s.fieldDefs.GetTemplate(ctx, *input.TemplateID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("template", map[string]any{"template_id": *input.TemplateID})
			}
			return nil, apperrors.MapError(err)
		}
		templateRequires = template.RequiresApproval
	}

	ticket := &domain.Ticket{
		Title:                    input.Title,
		Description:              input.Description,
		Priority:                 input.Priority,
		Impact:                   input.Impact,
		RequestType:              input.RequestType,
		CreatorID:                creator.ID,
		TemplateID:               input.TemplateID,
		ServiceItemID:            input.ServiceItemID,
		CreatorUnitID:            creator.UnitID,
		CreatorDepartmentID:      creator.DepartmentID,
		IsKasda:                  input.IsKasda,
		RequiresBusinessApproval: input.ApprovalOverride,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Impact == "" {
		ticket.Impact = domain.BusinessImpactMedium
	}
	if ticket.RequestType == "" {
		ticket.RequestType = domain.RequestTypeIncident
	}

	requiresApproval := s.router.RequiresApprovalFor(actor.Role, ApprovalPolicyInput{
		OverrideRequired: input.ApprovalOverride,
		IsKasda:          input.IsKasda,
		Impact:           ticket.Impact,
		TemplateRequires: templateRequires,
	})

	var reviewer *domain.User
	if requiresApproval {
		ticket.Status = domain.TicketStatusPendingApproval
		ticket.RequiresBusinessApproval = true
		// Due date stays null until the ticket becomes active.
		reviewer, err = s.router.SelectReviewer(ctx, creator)
		if err != nil {
			return nil, err
		}
	} else {
		ticket.Status = domain.TicketStatusOpen
		due := s.dueDateFor(ticket)
		ticket.SLADueAt = &due
	}

	tx, err := s.txStore.Begin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.CreateTicket(ctx, ticket); err != nil {
		return nil, s.updateFailed(err)
	}
	if len(input.FieldValues) > 0 {
		if err := tx.ReplaceFieldValues(ctx, ticket.ID, toFieldValues(ticket.ID, input.FieldValues)); err != nil {
			return nil, s.updateFailed(err)
		}
	}
	if reviewer != nil {
		approval := &domain.BusinessApproval{
			TicketID:   ticket.ID,
			ReviewerID: reviewer.ID,
			Status:     domain.ApprovalStatusPending,
		}
		if err := tx.CreateApproval(ctx, approval); err != nil {
			return nil, s.updateFailed(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, s.updateFailed(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  &actor.ID,
		Payload: events.TicketCreatedPayload{
			CreatorID: ticket.CreatorID,
			Status:    ticket.Status,
			Priority:  ticket.Priority,
			Title:     ticket.Title,
		},
	})
	if reviewer != nil {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketApprovalRequested,
			TicketID: ticket.ID,
			ActorID:  &actor.ID,
			Payload: events.TicketApprovalRequestedPayload{
				ReviewerID: reviewer.ID,
				CreatorID:  ticket.CreatorID,
				Priority:   ticket.Priority,
			},
		})
	}
	return ticket, nil
}

// ApplyUpdate executes a ticket mutation under an exclusive row lock:
// authorize, validate fields, validate the transition, persist the
// minimal diff, then fire best-effort notifications after commit.
func (s *TicketService) ApplyUpdate(ctx context.Context, ticketID int64, actor domain.Actor, changes TicketUpdateInput) (*TicketUpdateResult, error) {
	tx, err := s.txStore.Begin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ticket, err := tx.LockTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		if apperrors.IsLockTimeout(err) {
			return nil, apperrors.NewBusy("ticket")
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.authorizeFields(actor, ticket, &changes); err != nil {
		return nil, err
	}

	// Effective template: requested id wins, then explicit clearing,
	// then the current one.
	effectiveTemplate := ticket.TemplateID
	templateChanging := false
	if changes.TemplateID != nil {
		effectiveTemplate = changes.TemplateID
		templateChanging = ticket.TemplateID == nil || *ticket.TemplateID != *changes.TemplateID
	} else if changes.ClearTemplate {
		effectiveTemplate = nil
		templateChanging = ticket.TemplateID != nil
	}
	if changes.FieldValuesSet || templateChanging {
		if err := s.validator.Validate(ctx, effectiveTemplate, changes.FieldValues); err != nil {
			return nil, err
		}
	}

	// Effective target status: explicit request wins; otherwise an owner
	// edit of an awaiting-changes ticket synthesizes resubmission.
	targetStatus := changes.Status
	resubmission := false
	if targetStatus == nil && ResubmissionApplies(actor, ticket, changes.Status) {
		status := domain.TicketStatusPendingApproval
		targetStatus = &status
		resubmission = true
	}

	var approval *domain.BusinessApproval
	if ticket.Status == domain.TicketStatusPendingApproval || resubmission || ticket.Status == domain.TicketStatusAwaitingChanges {
		approval, err = tx.GetApproval(ctx, ticket.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, s.updateFailed(err)
		}
	}

	if targetStatus != nil && *targetStatus != ticket.Status {
		var reviewerID *int64
		if approval != nil {
			reviewerID = approval.Reviewer()
		}
		if err := ValidateTransition(actor, ticket, *targetStatus, reviewerID); err != nil {
			return nil, err
		}
	}

	updated := *ticket
	changed := s.applyColumnDiff(&updated, actor, changes)

	statusChanged := false
	if targetStatus != nil && *targetStatus != ticket.Status {
		s.applyStatusChange(&updated, *targetStatus)
		statusChanged = true
		changed = true
	}

	fieldsChanged := false
	if changes.FieldValuesSet || templateChanging {
		current, err := tx.ListFieldValues(ctx, ticket.ID)
		if err != nil {
			return nil, s.updateFailed(err)
		}
		if !sameFieldValues(current, changes.FieldValues) {
			fieldsChanged = true
		}
	}

	if !changed && !fieldsChanged {
		// Idempotent no-op: commit and report the unchanged ticket.
		if err := tx.Commit(ctx); err != nil {
			return nil, s.updateFailed(err)
		}
		return &TicketUpdateResult{Ticket: ticket, NoChanges: true, Message: NoChangesMessage}, nil
	}

	if changed {
		if err := tx.UpdateTicket(ctx, &updated); err != nil {
			return nil, s.updateFailed(err)
		}
	}
	if fieldsChanged {
		if err := tx.ReplaceFieldValues(ctx, ticket.ID, toFieldValues(ticket.ID, changes.FieldValues)); err != nil {
			return nil, s.updateFailed(err)
		}
	}

	if statusChanged {
		if approval != nil {
			if decision, ok := approvalDecisionFor(updated.Status); ok {
				switch {
				case decision == domain.ApprovalStatusPending:
					// Resubmission returns the record to pending for the
					// same reviewer.
					approval.Status = domain.ApprovalStatusPending
					approval.DecidedAt = nil
					if err := tx.UpdateApproval(ctx, approval); err != nil {
						return nil, s.updateFailed(err)
					}
				case approval.IsPending():
					approval.Status = decision
					approval.Comments = changes.Comment
					now := time.Now()
					approval.DecidedAt = &now
					if err := tx.UpdateApproval(ctx, approval); err != nil {
						return nil, s.updateFailed(err)
					}
				}
			}
		}
		entry := &domain.TicketHistory{
			TicketID:   ticket.ID,
			ChangedBy:  &actor.ID,
			ChangeType: domain.ChangeTypeStatus,
			OldValue:   map[string]any{"status": ticket.Status},
			NewValue:   map[string]any{"status": updated.Status},
		}
		if changes.Comment != nil {
			entry.NewValue["comment"] = *changes.Comment
		}
		if err := tx.AddHistory(ctx, entry); err != nil {
			return nil, s.updateFailed(err)
		}
	}

	if err := s.auditColumnChanges(ctx, tx, actor, ticket, &updated, fieldsChanged); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.updateFailed(err)
	}

	s.fireUpdateEvents(ctx, actor, ticket, &updated, approval, resubmission, changes.Comment)
	return &TicketUpdateResult{Ticket: &updated}, nil
}

// DeleteTicket removes a ticket and its dependent rows. Admin only.
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Actor, ticketID int64) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("only admins may delete tickets")
	}
	tx, err := s.txStore.Begin(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.LockTicket(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		if apperrors.IsLockTimeout(err) {
			return apperrors.NewBusy("ticket")
		}
		return apperrors.MapError(err)
	}
	if err := tx.DeleteTicket(ctx, ticketID); err != nil {
		return s.updateFailed(err)
	}
	return tx.Commit(ctx)
}

// BulkClassifyResult reports per-ticket outcomes of a batch
// classification.
type BulkClassifyResult struct {
	Updated  []int64
	Failures map[int64]string
}

// BulkClassify applies a classification to many tickets, one transaction
// each. A failure on one ticket never rolls back the others.
func (s *TicketService) BulkClassify(ctx context.Context, actor domain.Actor, ticketIDs []int64, rootCause, issueCategory *string) *BulkClassifyResult {
	result := &BulkClassifyResult{Failures: map[int64]string{}}
	for _, id := range ticketIDs {
		_, err := s.ApplyUpdate(ctx, id, actor, TicketUpdateInput{
			RootCause:     rootCause,
			IssueCategory: issueCategory,
		})
		if err != nil {
			result.Failures[id] = apperrors.ToDomainError(err).Message
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result
}

// GetTicket fetches a ticket enforcing ownership for requesters.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !actor.Role.IsStaff() && ticket.CreatorID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListTickets returns tickets visible to the actor.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if !actor.Role.IsStaff() {
		filter.CreatorID = &actor.ID
	}
	return s.tickets.ListWithFilter(ctx, filter)
}

// authorizeFields rejects any requested field outside the actor's
// allowed set before anything mutates.
func (s *TicketService) authorizeFields(actor domain.Actor, ticket *domain.Ticket, changes *TicketUpdateInput) error {
	if actor.Role.IsStaff() {
		if ticket.IsClassificationLocked && actor.Role != domain.RoleAdmin &&
			(changes.RootCause != nil || changes.IssueCategory != nil) {
			return apperrors.NewForbidden("classification is locked by an administrator")
		}
		return nil
	}

	if ticket.CreatorID != actor.ID {
		return apperrors.NewForbidden("not permitted to modify this ticket")
	}

	// Owners never touch assignment.
	if changes.TechnicianID != nil {
		return apperrors.NewForbidden("requesters cannot assign technicians")
	}
	if ticket.IsClassificationLocked && (changes.RootCause != nil || changes.IssueCategory != nil) {
		return apperrors.NewForbidden("classification is locked by an administrator")
	}

	hasContentEdit := changes.Title != nil || changes.Description != nil ||
		changes.Priority != nil || changes.Impact != nil || changes.RequestType != nil ||
		changes.TemplateID != nil || changes.ClearTemplate || changes.FieldValuesSet ||
		changes.RootCause != nil || changes.IssueCategory != nil
	if hasContentEdit && !ContentEditable(actor, ticket) {
		return apperrors.NewForbidden("ticket content can no longer be edited by the requester")
	}
	return nil
}

// applyColumnDiff copies requested values that actually differ onto the
// updated row and reports whether anything changed.
func (s *TicketService) applyColumnDiff(updated *domain.Ticket, actor domain.Actor, changes TicketUpdateInput) bool {
	changed := false

	if changes.Title != nil && *changes.Title != updated.Title {
		updated.Title = *changes.Title
		changed = true
	}
	if changes.Description != nil && *changes.Description != updated.Description {
		updated.Description = *changes.Description
		changed = true
	}
	if changes.Priority != nil && *changes.Priority != updated.Priority {
		updated.Priority = *changes.Priority
		changed = true
	}
	if changes.Impact != nil && *changes.Impact != updated.Impact {
		updated.Impact = *changes.Impact
		changed = true
	}
	if changes.RequestType != nil && *changes.RequestType != updated.RequestType {
		updated.RequestType = *changes.RequestType
		changed = true
	}
	if changes.TechnicianID != nil && !sameInt64Ptr(updated.TechnicianID, changes.TechnicianID) {
		updated.TechnicianID = changes.TechnicianID
		changed = true
	}
	if changes.TemplateID != nil && !sameInt64Ptr(updated.TemplateID, changes.TemplateID) {
		updated.TemplateID = changes.TemplateID
		changed = true
	} else if changes.ClearTemplate && updated.TemplateID != nil {
		updated.TemplateID = nil
		changed = true
	}

	// Classification lands on the column matching the actor's side;
	// technician values take precedence at read time.
	if changes.RootCause != nil {
		if actor.Role.IsStaff() {
			if !sameStringPtr(updated.TechnicianRootCause, changes.RootCause) {
				updated.TechnicianRootCause = changes.RootCause
				changed = true
			}
		} else if !sameStringPtr(updated.RequesterRootCause, changes.RootCause) {
			updated.RequesterRootCause = changes.RootCause
			changed = true
		}
	}
	if changes.IssueCategory != nil {
		if actor.Role.IsStaff() {
			if !sameStringPtr(updated.TechnicianIssueCategory, changes.IssueCategory) {
				updated.TechnicianIssueCategory = changes.IssueCategory
				changed = true
			}
		} else if !sameStringPtr(updated.RequesterIssueCategory, changes.IssueCategory) {
			updated.RequesterIssueCategory = changes.IssueCategory
			changed = true
		}
	}
	return changed
}

// applyStatusChange sets the new status plus its side values: the SLA
// due date is computed exactly once on entering an active state and
// nulled while pending approval; resolution timestamps track the
// resolved state.
func (s *TicketService) applyStatusChange(updated *domain.Ticket, next domain.TicketStatus) {
	updated.Status = next
	switch next {
	case domain.TicketStatusPendingApproval:
		updated.SLADueAt = nil
	case domain.TicketStatusApproved, domain.TicketStatusOpen:
		due := s.dueDateFor(updated)
		updated.SLADueAt = &due
	case domain.TicketStatusResolved:
		now := time.Now()
		updated.ResolvedAt = &now
	case domain.TicketStatusInProgress:
		updated.ResolvedAt = nil
	}
}

// auditColumnChanges writes history entries for the non-status changes a
// mutation carried. Status changes are recorded separately, together
// with the approval bookkeeping.
func (s *TicketService) auditColumnChanges(ctx context.Context, tx repository.TicketTx, actor domain.Actor, before, after *domain.Ticket, fieldsChanged bool) error {
	add := func(changeType domain.TicketChangeType, oldValue, newValue map[string]any) error {
		if err := tx.AddHistory(ctx, &domain.TicketHistory{
			TicketID:   before.ID,
			ChangedBy:  &actor.ID,
			ChangeType: changeType,
			OldValue:   oldValue,
			NewValue:   newValue,
		}); err != nil {
			return s.updateFailed(err)
		}
		return nil
	}

	if !sameInt64Ptr(before.TechnicianID, after.TechnicianID) {
		if err := add(domain.ChangeTypeAssignment,
			map[string]any{"technician_id": before.TechnicianID},
			map[string]any{"technician_id": after.TechnicianID}); err != nil {
			return err
		}
	}
	if before.Priority != after.Priority {
		if err := add(domain.ChangeTypePriority,
			map[string]any{"priority": before.Priority},
			map[string]any{"priority": after.Priority}); err != nil {
			return err
		}
	}
	if !sameStringPtr(before.ConfirmedRootCause(), after.ConfirmedRootCause()) ||
		!sameStringPtr(before.ConfirmedIssueCategory(), after.ConfirmedIssueCategory()) {
		if err := add(domain.ChangeTypeClassification,
			map[string]any{"root_cause": before.ConfirmedRootCause(), "issue_category": before.ConfirmedIssueCategory()},
			map[string]any{"root_cause": after.ConfirmedRootCause(), "issue_category": after.ConfirmedIssueCategory()}); err != nil {
			return err
		}
	}
	if !sameInt64Ptr(before.TemplateID, after.TemplateID) {
		if err := add(domain.ChangeTypeTemplate,
			map[string]any{"template_id": before.TemplateID},
			map[string]any{"template_id": after.TemplateID}); err != nil {
			return err
		}
	}
	if fieldsChanged {
		if err := add(domain.ChangeTypeFields, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// dueDateFor routes regulated tickets through the impact-keyed table and
// ordinary ones through the priority table.
func (s *TicketService) dueDateFor(ticket *domain.Ticket) time.Time {
	if ticket.IsRegulated() {
		return s.sla.DueByImpact(ticket.Impact, true)
	}
	return s.sla.DueByPriority(ticket.Priority)
}

func (s *TicketService) fireUpdateEvents(ctx context.Context, actor domain.Actor, before, after *domain.Ticket, approval *domain.BusinessApproval, resubmission bool, commentPtr *string) {
	comment := ""
	if commentPtr != nil {
		comment = *commentPtr
	}
	if resubmission && approval != nil {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketResubmitted,
			TicketID: after.ID,
			ActorID:  &actor.ID,
			Payload: events.TicketResubmittedPayload{
				ReviewerID: approval.ReviewerID,
				CreatorID:  after.CreatorID,
			},
		})
		return
	}
	if before.Status != after.Status {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: after.ID,
			ActorID:  &actor.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: before.Status,
				NewStatus: after.Status,
				CreatorID: after.CreatorID,
				Comment:   comment,
			},
		})
	}
	if !sameInt64Ptr(before.TechnicianID, after.TechnicianID) {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: after.ID,
			ActorID:  &actor.ID,
			Payload:  events.TicketAssignedPayload{TechnicianID: after.TechnicianID},
		})
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// updateFailed wraps unexpected persistence errors; the cause is only
// exposed outside production.
func (s *TicketService) updateFailed(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if apperrors.IsLockTimeout(err) {
		return apperrors.NewBusy("ticket")
	}
	s.logger.Error("ticket update failed", zap.Error(err))
	wrapped := apperrors.NewUpdateFailed(err)
	if s.exposeErrs {
		if de, ok := wrapped.(*apperrors.DomainError); ok {
			de.Details = map[string]any{"cause": err.Error()}
		}
	}
	return wrapped
}

// approvalDecisionFor maps a decision transition to the approval record
// status it implies.
func approvalDecisionFor(status domain.TicketStatus) (domain.ApprovalStatus, bool) {
	switch status {
	case domain.TicketStatusApproved:
		return domain.ApprovalStatusApproved, true
	case domain.TicketStatusRejected:
		return domain.ApprovalStatusRejected, true
	case domain.TicketStatusAwaitingChanges:
		return domain.ApprovalStatusReviewRequired, true
	case domain.TicketStatusPendingApproval:
		return domain.ApprovalStatusPending, true
	default:
		return "", false
	}
}

func toFieldValues(ticketID int64, values []SubmittedFieldValue) []domain.CustomFieldValue {
	result := make([]domain.CustomFieldValue, 0, len(values))
	for _, value := range values {
		result = append(result, domain.CustomFieldValue{
			TicketID:          ticketID,
			FieldDefinitionID: value.FieldDefinitionID,
			Value:             value.Value,
		})
	}
	return result
}

func sameFieldValues(current []domain.CustomFieldValue, submitted []SubmittedFieldValue) bool {
	if len(current) != len(submitted) {
		return false
	}
	existing := make(map[int64]string, len(current))
	for _, value := range current {
		existing[value.FieldDefinitionID] = value.Value
	}
	for _, value := range submitted {
		stored, ok := existing[value.FieldDefinitionID]
		if !ok || stored != value.Value {
			return false
		}
	}
	return true
}

func sameInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
