package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	payload, err := DecodePayload(strings.NewReader(body))
	require.NoError(t, err)
	return payload
}

func TestDecodePayloadRejectsTrailingData(t *testing.T) {
	_, err := DecodePayload(strings.NewReader(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestValidatePayloadCreate(t *testing.T) {
	res := productResource()
	payload := decode(t, `{"external_id": 7, "name": "Widget", "label": "hot"}`)
	values, err := ValidatePayload(res, payload, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), values["external_id"])
	assert.Equal(t, "Widget", values["name"])
	assert.Equal(t, "hot", values["label"])
	// optional absent field maps to NULL
	v, present := values["description"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestValidatePayloadAppliesDefaults(t *testing.T) {
	res := Resource{Name: "widget", Fields: []Field{
		{Name: "kind", Type: TypeString, Required: true, Default: "basic"},
		{Name: "count", Type: TypeInt, Default: 1},
	}}
	values, err := ValidatePayload(res, map[string]any{}, false)
	require.NoError(t, err)
	assert.Equal(t, "basic", values["kind"])
	assert.Equal(t, int64(1), values["count"])
}

func TestValidatePayloadMissingRequired(t *testing.T) {
	res := productResource()
	_, err := ValidatePayload(res, decode(t, `{"name": "Widget"}`), false)
	require.True(t, IsValidation(err))
	fields := FieldErrors(err)
	assert.Equal(t, "required", fields["external_id"])
	assert.Equal(t, "required", fields["label"])
	assert.NotContains(t, fields, "description")
}

func TestValidatePayloadRejectsUnknownAndBaseColumns(t *testing.T) {
	res := productResource()
	payload := decode(t, `{"external_id": 1, "name": "x", "label": "new", "bogus": true, "id": 9}`)
	_, err := ValidatePayload(res, payload, false)
	require.True(t, IsValidation(err))
	fields := FieldErrors(err)
	assert.Equal(t, "unknown field", fields["bogus"])
	assert.Equal(t, "read-only column", fields["id"])
}

func TestValidatePayloadTypeChecks(t *testing.T) {
	res := Resource{Name: "sample", Fields: []Field{
		{Name: "count", Type: TypeInt},
		{Name: "ratio", Type: TypeFloat},
		{Name: "on", Type: TypeBool},
		{Name: "when", Type: TypeTime},
		{Name: "tag", Type: TypeEnum, Values: []string{"a", "b"}},
		{Name: "note", Type: TypeString, MaxLen: 5},
	}}
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"fractional int", `{"count": 1.5}`, "count"},
		{"string int", `{"count": "1"}`, "count"},
		{"bool as number", `{"on": 1}`, "on"},
		{"bad timestamp", `{"when": "yesterday"}`, "when"},
		{"enum member", `{"tag": "c"}`, "tag"},
		{"too long", `{"note": "abcdef"}`, "note"},
		{"float as string", `{"ratio": "1.2"}`, "ratio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidatePayload(res, decode(t, tc.body), true)
			require.True(t, IsValidation(err), "err=%v", err)
			assert.Contains(t, FieldErrors(err), tc.field)
		})
	}
}

func TestValidatePayloadCoercions(t *testing.T) {
	res := Resource{Name: "sample", Fields: []Field{
		{Name: "count", Type: TypeInt},
		{Name: "ratio", Type: TypeFloat},
		{Name: "when", Type: TypeTime},
	}}
	payload := decode(t, `{"count": 42, "ratio": 3, "when": "2024-05-01T10:00:00+02:00"}`)
	values, err := ValidatePayload(res, payload, true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), values["count"])
	assert.Equal(t, float64(3), values["ratio"])
	when, ok := values["when"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, when.Location())
	assert.Equal(t, 8, when.Hour())
}

func TestValidatePayloadPartialSkipsAbsent(t *testing.T) {
	res := productResource()
	values, err := ValidatePayload(res, decode(t, `{"name": "Renamed"}`), true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Renamed"}, values)
}

func TestValidatePayloadNullHandling(t *testing.T) {
	res := productResource()
	// required field set to null
	_, err := ValidatePayload(res, decode(t, `{"name": null}`), true)
	require.True(t, IsValidation(err))
	// optional field set to null
	values, err := ValidatePayload(res, decode(t, `{"description": null}`), true)
	require.NoError(t, err)
	v, present := values["description"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := ValidationError{Fields: map[string]string{"b": "required", "a": "unknown field"}}
	assert.Equal(t, "invalid payload: a: unknown field; b: required", err.Error())
}
