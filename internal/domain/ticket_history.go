package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus         TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignment     TicketChangeType = "ASSIGNMENT_CHANGE"
	ChangeTypePriority       TicketChangeType = "PRIORITY_CHANGE"
	ChangeTypeClassification TicketChangeType = "CLASSIFICATION_CHANGE"
	ChangeTypeTemplate       TicketChangeType = "TEMPLATE_CHANGE"
	ChangeTypeFields         TicketChangeType = "FIELDS_CHANGE"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID         int64
	TicketID   int64
	ChangedBy  *int64
	ChangeType TicketChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
