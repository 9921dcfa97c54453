package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SubmittedFieldValue is one canonical field value from the transport
// boundary.
type SubmittedFieldValue struct {
	FieldDefinitionID int64
	Value             string
}

// FieldValidator type-checks submitted values against the template's
// live field definitions. Pure validation; persistence happens in the
// ticket service.
type FieldValidator struct {
	definitions repository.FieldDefinitionRepository
}

// NewFieldValidator constructs the validator.
func NewFieldValidator(definitions repository.FieldDefinitionRepository) *FieldValidator {
	return &FieldValidator{definitions: definitions}
}

// dateLayouts accepted for date fields.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Validate accepts or rejects the submitted values for templateID.
// A nil templateID means no template is active.
func (v *FieldValidator) Validate(ctx context.Context, templateID *int64, values []SubmittedFieldValue) error {
	if templateID == nil {
		if len(values) > 0 {
			return apperrors.NewValidationError("custom field values submitted without an active template", nil)
		}
		return nil
	}

	defs, err := v.definitions.ListByTemplate(ctx, *templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("template", map[string]any{"template_id": *templateID})
		}
		return apperrors.MapError(err)
	}
	if len(defs) == 0 {
		if len(values) > 0 {
			return apperrors.NewValidationError("template has no custom fields", nil)
		}
		return nil
	}

	byID := make(map[int64]*domain.FieldDefinition, len(defs))
	for i := range defs {
		byID[defs[i].ID] = &defs[i]
	}

	submitted := make(map[int64]bool, len(values))
	for _, value := range values {
		def, ok := byID[value.FieldDefinitionID]
		if !ok {
			// Fail fast: first violation reported.
			return apperrors.NewValidationError(
				fmt.Sprintf("field definition %d does not belong to the active template", value.FieldDefinitionID),
				map[string]any{"field_definition_id": value.FieldDefinitionID})
		}
		if err := checkFieldValue(def, value.Value); err != nil {
			return err
		}
		submitted[def.ID] = true
	}

	var missing []string
	for i := range defs {
		if defs[i].IsRequired && !submitted[defs[i].ID] {
			missing = append(missing, defs[i].Name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			map[string]any{"missing_fields": missing})
	}
	return nil
}

func checkFieldValue(def *domain.FieldDefinition, value string) error {
	switch def.Type {
	case domain.FieldTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return apperrors.NewValidationError(
				fmt.Sprintf("field %q must be a number", def.Name),
				map[string]any{"field": def.Name, "value": value})
		}
	case domain.FieldTypeDate:
		if !parsesAsDate(value) {
			return apperrors.NewValidationError(
				fmt.Sprintf("field %q must be a valid date", def.Name),
				map[string]any{"field": def.Name, "value": value})
		}
	case domain.FieldTypeDropdown, domain.FieldTypeRadio:
		if !def.HasOption(value) {
			return apperrors.NewValidationError(
				fmt.Sprintf("field %q must be one of its configured options", def.Name),
				map[string]any{"field": def.Name, "value": value, "options": def.Options})
		}
	case domain.FieldTypeCheckbox:
		// Checkbox options are optional; only enforce membership when
		// an option list is configured.
		if len(def.Options) > 0 && !def.HasOption(value) {
			return apperrors.NewValidationError(
				fmt.Sprintf("field %q must be one of its configured options", def.Name),
				map[string]any{"field": def.Name, "value": value, "options": def.Options})
		}
	case domain.FieldTypeText, domain.FieldTypeTextarea:
		// Free text; emptiness is enforced at the transport boundary.
	}
	return nil
}

func parsesAsDate(value string) bool {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
