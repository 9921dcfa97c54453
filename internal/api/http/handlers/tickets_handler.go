package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler exposes ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	approvals repository.ApprovalRepository
	history   repository.TicketHistoryRepository
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, approvals repository.ApprovalRepository, history repository.TicketHistoryRepository) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, approvals: approvals, history: history}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return apperrors.NewValidationError("title is required", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), principal.Actor(), service.TicketCreateInput{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		Impact:           req.Impact,
		RequestType:      req.RequestType,
		TemplateID:       req.TemplateID,
		ServiceItemID:    req.ServiceItemID,
		IsKasda:          req.IsKasda,
		ApprovalOverride: req.RequiresBusinessApproval,
		FieldValues:      toSubmittedValues(req.CustomFieldValues),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Update handles PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	input := service.TicketUpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Impact:        req.Impact,
		RequestType:   req.RequestType,
		Status:        req.Status,
		TechnicianID:  req.TechnicianID,
		RootCause:     req.RootCause,
		IssueCategory: req.IssueCategory,
		TemplateID:    req.TemplateID,
		ClearTemplate: req.ClearTemplate,
		Comment:       req.Comment,
	}
	if req.CustomFieldValues != nil {
		input.FieldValues = toSubmittedValues(*req.CustomFieldValues)
		input.FieldValuesSet = true
	}

	result, err := h.tickets.ApplyUpdate(c.UserContext(), ticketID, principal.Actor(), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UpdateTicketResponse{
		Message: result.Message,
		Ticket:  dto.FromTicket(result.Ticket),
	}})
}

// Decide handles POST /tickets/:id/decision (reviewer verdict).
func (h *TicketsHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var status domain.TicketStatus
	switch req.Decision {
	case "approve":
		status = domain.TicketStatusApproved
	case "reject":
		status = domain.TicketStatusRejected
	case "request_changes":
		status = domain.TicketStatusAwaitingChanges
	default:
		return apperrors.NewValidationError("decision must be approve, reject or request_changes", nil)
	}

	result, err := h.tickets.ApplyUpdate(c.UserContext(), ticketID, principal.Actor(), service.TicketUpdateInput{
		Status:  &status,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(result.Ticket)})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), principal.Actor(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.TicketFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.TicketStatus{domain.TicketStatus(status)}
	}
	if priority := c.Query("priority"); priority != "" {
		filter.Priorities = []domain.TicketPriority{domain.TicketPriority(priority)}
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}

	tickets, err := h.tickets.ListTickets(c.UserContext(), principal.Actor(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	responses := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		responses = append(responses, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Delete handles DELETE /tickets/:id (admin only).
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), principal.Actor(), ticketID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// BulkClassify handles POST /tickets/bulk/classify.
func (h *TicketsHandler) BulkClassify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BulkClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.TicketIDs) == 0 {
		return apperrors.NewValidationError("ticket_ids is required", nil)
	}

	result := h.tickets.BulkClassify(c.UserContext(), principal.Actor(), req.TicketIDs, req.RootCause, req.IssueCategory)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"updated":  result.Updated,
		"failures": result.Failures,
	}})
}

// History handles GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	// Access check via the same ownership rules as Get.
	if _, err := h.tickets.GetTicket(c.UserContext(), principal.Actor(), ticketID); err != nil {
		return err
	}
	entries, err := h.history.ListByTicket(c.UserContext(), ticketID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": entries})
}

// PendingApprovals handles GET /approvals/pending for reviewers.
func (h *TicketsHandler) PendingApprovals(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	approvals, err := h.approvals.ListPendingForReviewer(c.UserContext(), principal.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": approvals})
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func toSubmittedValues(values dto.FieldValueList) []service.SubmittedFieldValue {
	result := make([]service.SubmittedFieldValue, 0, len(values))
	for _, value := range values {
		result = append(result, service.SubmittedFieldValue{
			FieldDefinitionID: value.FieldDefinitionID,
			Value:             value.Value,
		})
	}
	return result
}
