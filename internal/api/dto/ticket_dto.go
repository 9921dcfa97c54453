package dto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// FieldValueInput is one submitted custom field value.
type FieldValueInput struct {
	FieldDefinitionID int64  `json:"field_definition_id"`
	Value             string `json:"value"`
}

// FieldValueList canonicalizes the two payload shapes clients send:
// a JSON array, or a JSON-encoded string containing that array. The
// core never sees the untyped form.
type FieldValueList []FieldValueInput

// UnmarshalJSON implements the dual-shape parse.
func (l *FieldValueList) UnmarshalJSON(data []byte) error {
	var direct []FieldValueInput
	if err := json.Unmarshal(data, &direct); err == nil {
		*l = direct
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return errors.New("custom_field_values must be an array or a JSON-encoded string")
	}
	var nested []FieldValueInput
	if err := json.Unmarshal([]byte(encoded), &nested); err != nil {
		return errors.New("custom_field_values string does not contain a valid array")
	}
	*l = nested
	return nil
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title                    string                `json:"title"`
	Description              string                `json:"description"`
	Priority                 domain.TicketPriority `json:"priority"`
	Impact                   domain.BusinessImpact `json:"impact"`
	RequestType              domain.RequestType    `json:"request_type"`
	TemplateID               *int64                `json:"template_id"`
	ServiceItemID            *int64                `json:"service_item_id"`
	IsKasda                  bool                  `json:"is_kasda"`
	RequiresBusinessApproval bool                  `json:"requires_business_approval"`
	CustomFieldValues        FieldValueList        `json:"custom_field_values"`
}

// UpdateTicketRequest payload; absent fields stay unchanged.
type UpdateTicketRequest struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Priority      *domain.TicketPriority `json:"priority"`
	Impact        *domain.BusinessImpact `json:"impact"`
	RequestType   *domain.RequestType    `json:"request_type"`
	Status        *domain.TicketStatus   `json:"status"`
	TechnicianID  *int64                 `json:"technician_id"`
	RootCause     *string                `json:"root_cause"`
	IssueCategory *string                `json:"issue_category"`
	TemplateID    *int64                 `json:"template_id"`
	ClearTemplate bool                   `json:"clear_template"`
	// Pointer distinguishes "absent" from "replace with empty list".
	CustomFieldValues *FieldValueList `json:"custom_field_values"`
	Comment           *string         `json:"comment"`
}

// DecisionRequest is the reviewer's verdict on a pending ticket.
type DecisionRequest struct {
	Decision string  `json:"decision"` // approve | reject | request_changes
	Comment  *string `json:"comment"`
}

// BulkClassifyRequest payload.
type BulkClassifyRequest struct {
	TicketIDs     []int64 `json:"ticket_ids"`
	RootCause     *string `json:"root_cause"`
	IssueCategory *string `json:"issue_category"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID                     int64                 `json:"id"`
	Title                  string                `json:"title"`
	Description            string                `json:"description"`
	Priority               domain.TicketPriority `json:"priority"`
	Impact                 domain.BusinessImpact `json:"impact"`
	RequestType            domain.RequestType    `json:"request_type"`
	Status                 domain.TicketStatus   `json:"status"`
	SLADueAt               *time.Time            `json:"sla_due_at"`
	CreatorID              int64                 `json:"creator_id"`
	TechnicianID           *int64                `json:"technician_id"`
	TemplateID             *int64                `json:"template_id"`
	ServiceItemID          *int64                `json:"service_item_id"`
	ConfirmedRootCause     *string               `json:"confirmed_root_cause"`
	ConfirmedIssueCategory *string               `json:"confirmed_issue_category"`
	IsKasda                bool                  `json:"is_kasda"`
	CreatedAt              time.Time             `json:"created_at"`
	UpdatedAt              time.Time             `json:"updated_at"`
	ResolvedAt             *time.Time            `json:"resolved_at"`
}

// FromTicket maps the domain aggregate to the response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                     t.ID,
		Title:                  t.Title,
		Description:            t.Description,
		Priority:               t.Priority,
		Impact:                 t.Impact,
		RequestType:            t.RequestType,
		Status:                 t.Status,
		SLADueAt:               t.SLADueAt,
		CreatorID:              t.CreatorID,
		TechnicianID:           t.TechnicianID,
		TemplateID:             t.TemplateID,
		ServiceItemID:          t.ServiceItemID,
		ConfirmedRootCause:     t.ConfirmedRootCause(),
		ConfirmedIssueCategory: t.ConfirmedIssueCategory(),
		IsKasda:                t.IsKasda,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
		ResolvedAt:             t.ResolvedAt,
	}
}

// UpdateTicketResponse wraps the committed ticket; Message is set on the
// idempotent no-op path.
type UpdateTicketResponse struct {
	Message string         `json:"message,omitempty"`
	Ticket  TicketResponse `json:"ticket"`
}
