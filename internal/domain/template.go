package domain

import "time"

// FieldType enumerates supported custom field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
)

// IsChoice reports whether the field type selects from an option list.
func (t FieldType) IsChoice() bool {
	return t == FieldTypeDropdown || t == FieldTypeRadio || t == FieldTypeCheckbox
}

// Template is an administrator-defined set of custom field definitions
// attached to a service catalog category.
type Template struct {
	ID               int64
	Name             string
	RequiresApproval bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FieldDefinition belongs to exactly one template. Validation always runs
// against the current definition set, never a historical snapshot.
type FieldDefinition struct {
	ID         int64
	TemplateID int64
	Name       string
	Type       FieldType
	Options    []string
	IsRequired bool
	SortOrder  int
}

// HasOption reports whether value is a member of the option list.
func (d *FieldDefinition) HasOption(value string) bool {
	for _, opt := range d.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// CustomFieldValue stores one submitted value per (ticket, definition).
type CustomFieldValue struct {
	TicketID          int64
	FieldDefinitionID int64
	Value             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
