package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type fakeFieldDefRepo struct {
	templates map[int64]*domain.Template
	defs      map[int64][]domain.FieldDefinition
}

func (f *fakeFieldDefRepo) GetTemplate(_ context.Context, id int64) (*domain.Template, error) {
	template, ok := f.templates[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return template, nil
}

func (f *fakeFieldDefRepo) ListByTemplate(_ context.Context, templateID int64) ([]domain.FieldDefinition, error) {
	return f.defs[templateID], nil
}

func validatorFixture() *FieldValidator {
	repo := &fakeFieldDefRepo{
		templates: map[int64]*domain.Template{
			1: {ID: 1, Name: "network access"},
		},
		defs: map[int64][]domain.FieldDefinition{
			1: {
				{ID: 10, TemplateID: 1, Name: "hostname", Type: domain.FieldTypeText, IsRequired: true, SortOrder: 1},
				{ID: 11, TemplateID: 1, Name: "port count", Type: domain.FieldTypeNumber, SortOrder: 2},
				{ID: 12, TemplateID: 1, Name: "go-live date", Type: domain.FieldTypeDate, IsRequired: true, SortOrder: 3},
				{ID: 13, TemplateID: 1, Name: "environment", Type: domain.FieldTypeDropdown, Options: []string{"dev", "staging", "prod"}, SortOrder: 4},
			},
			2: {},
		},
	}
	return NewFieldValidator(repo)
}

func TestValidateWithoutTemplateRejectsValues(t *testing.T) {
	v := validatorFixture()

	assert.NoError(t, v.Validate(context.Background(), nil, nil))

	err := v.Validate(context.Background(), nil, []SubmittedFieldValue{{FieldDefinitionID: 10, Value: "x"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code)
}

func TestValidateEmptyDefinitionSetRejectsValues(t *testing.T) {
	v := validatorFixture()
	templateID := int64(2)

	assert.NoError(t, v.Validate(context.Background(), &templateID, nil))

	err := v.Validate(context.Background(), &templateID, []SubmittedFieldValue{{FieldDefinitionID: 10, Value: "x"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code)
}

func TestValidateRejectsForeignDefinitionID(t *testing.T) {
	v := validatorFixture()
	templateID := int64(1)

	err := v.Validate(context.Background(), &templateID, []SubmittedFieldValue{
		{FieldDefinitionID: 10, Value: "core-sw-01"},
		{FieldDefinitionID: 99, Value: "x"},
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
	assert.EqualValues(t, int64(99), domainErr.Details["field_definition_id"])
}

func TestValidateTypeChecks(t *testing.T) {
	v := validatorFixture()
	templateID := int64(1)

	base := []SubmittedFieldValue{
		{FieldDefinitionID: 10, Value: "core-sw-01"},
		{FieldDefinitionID: 12, Value: "2025-07-01"},
	}

	tests := []struct {
		name  string
		extra SubmittedFieldValue
		ok    bool
	}{
		{"valid number", SubmittedFieldValue{FieldDefinitionID: 11, Value: "48"}, true},
		{"invalid number", SubmittedFieldValue{FieldDefinitionID: 11, Value: "lots"}, false},
		{"valid dropdown option", SubmittedFieldValue{FieldDefinitionID: 13, Value: "prod"}, true},
		{"unlisted dropdown option", SubmittedFieldValue{FieldDefinitionID: 13, Value: "qa"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), &templateID, append(base, tt.extra))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code)
			}
		})
	}
}

func TestValidateDateAcceptsBothLayouts(t *testing.T) {
	v := validatorFixture()
	templateID := int64(1)

	for _, value := range []string{"2025-07-01", "2025-07-01T10:30:00Z"} {
		err := v.Validate(context.Background(), &templateID, []SubmittedFieldValue{
			{FieldDefinitionID: 10, Value: "core-sw-01"},
			{FieldDefinitionID: 12, Value: value},
		})
		assert.NoErrorf(t, err, "date %q should be accepted", value)
	}

	err := v.Validate(context.Background(), &templateID, []SubmittedFieldValue{
		{FieldDefinitionID: 10, Value: "core-sw-01"},
		{FieldDefinitionID: 12, Value: "July 1st"},
	})
	require.Error(t, err)
}

func TestValidateReportsAllMissingRequiredFields(t *testing.T) {
	v := validatorFixture()
	templateID := int64(1)

	err := v.Validate(context.Background(), &templateID, nil)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
	assert.Contains(t, domainErr.Message, "hostname")
	assert.Contains(t, domainErr.Message, "go-live date")
}
