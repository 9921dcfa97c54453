package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValueListParsesArray(t *testing.T) {
	payload := `{"custom_field_values":[{"field_definition_id":10,"value":"core-sw-01"},{"field_definition_id":11,"value":"24"}]}`

	var req CreateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.Len(t, req.CustomFieldValues, 2)
	assert.Equal(t, int64(10), req.CustomFieldValues[0].FieldDefinitionID)
	assert.Equal(t, "24", req.CustomFieldValues[1].Value)
}

func TestFieldValueListParsesEncodedString(t *testing.T) {
	payload := `{"custom_field_values":"[{\"field_definition_id\":10,\"value\":\"core-sw-01\"}]"}`

	var req CreateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.Len(t, req.CustomFieldValues, 1)
	assert.Equal(t, int64(10), req.CustomFieldValues[0].FieldDefinitionID)
	assert.Equal(t, "core-sw-01", req.CustomFieldValues[0].Value)
}

func TestFieldValueListRejectsOtherShapes(t *testing.T) {
	for _, payload := range []string{
		`{"custom_field_values":42}`,
		`{"custom_field_values":"not json"}`,
		`{"custom_field_values":{"field_definition_id":10}}`,
	} {
		var req CreateTicketRequest
		assert.Errorf(t, json.Unmarshal([]byte(payload), &req), "payload %s should be rejected", payload)
	}
}

func TestUpdateRequestDistinguishesAbsentFromEmpty(t *testing.T) {
	var absent UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &absent))
	assert.Nil(t, absent.CustomFieldValues)

	var empty UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"custom_field_values":[]}`), &empty))
	require.NotNil(t, empty.CustomFieldValues)
	assert.Empty(t, *empty.CustomFieldValues)
}
