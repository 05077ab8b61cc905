package validation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExists struct {
	rows map[string]bool
	err  error
}

func (f *fakeExists) Exists(_ context.Context, table, column string, value interface{}) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.rows[fmt.Sprintf("%s.%s.%v", table, column, value)], nil
}

func newTestValidator(rows map[string]bool) *Validator {
	return New(&fakeExists{rows: rows})
}

func TestValidateAllRequired(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "name", Rules: "required|max:120|min:3"}}
	messages := Messages{"required": "Campo obrigatório"}

	tests := []struct {
		name string
		data map[string]interface{}
		want []FieldError
	}{
		{
			name: "missing field",
			data: map[string]interface{}{},
			want: []FieldError{{Field: "name", Message: "Campo obrigatório", Validation: "required"}},
		},
		{
			name: "empty string",
			data: map[string]interface{}{"name": ""},
			want: []FieldError{{Field: "name", Message: "Campo obrigatório", Validation: "required"}},
		},
		{
			name: "nil value",
			data: map[string]interface{}{"name": nil},
			want: []FieldError{{Field: "name", Message: "Campo obrigatório", Validation: "required"}},
		},
		{
			name: "valid",
			data: map[string]interface{}{"name": "Tim Maia"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAll(context.Background(), tt.data, rules, messages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAllSkipsNonRequiredRulesOnEmpty(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "year", Rules: "integer|range:1800,2021"}}

	got, err := v.ValidateAll(context.Background(), map[string]interface{}{}, rules, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateAllBounds(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "name", Rules: "required|max:5|min:3"}}

	tests := []struct {
		name        string
		value       string
		wantFailure string
	}{
		{name: "too short", value: "ab", wantFailure: "min"},
		{name: "too long", value: "abcdef", wantFailure: "max"},
		{name: "lower edge", value: "abc"},
		{name: "upper edge", value: "abcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAll(context.Background(), map[string]interface{}{"name": tt.value}, rules, nil)
			require.NoError(t, err)
			if tt.wantFailure == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantFailure, got[0].Validation)
		})
	}
}

func TestValidateAllIntegerAndAbove(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "page", Rules: "required|integer|above:-1"}}

	tests := []struct {
		name         string
		value        interface{}
		wantFailures []string
	}{
		{name: "numeric string", value: "0"},
		{name: "json number", value: float64(3)},
		{name: "not a number", value: "abc", wantFailures: []string{"integer"}},
		{name: "fractional", value: 1.5, wantFailures: []string{"integer"}},
		{name: "below limit", value: "-1", wantFailures: []string{"above"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAll(context.Background(), map[string]interface{}{"page": tt.value}, rules, nil)
			require.NoError(t, err)
			var kinds []string
			for _, e := range got {
				kinds = append(kinds, e.Validation)
			}
			assert.Equal(t, tt.wantFailures, kinds)
		})
	}
}

func TestValidateAllRangeInclusive(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "year", Rules: "integer|range:1800,2021"}}

	tests := []struct {
		value interface{}
		valid bool
	}{
		{value: float64(1800), valid: true},
		{value: float64(2021), valid: true},
		{value: "1950", valid: true},
		{value: float64(1799), valid: false},
		{value: float64(2022), valid: false},
	}

	for _, tt := range tests {
		got, err := v.ValidateAll(context.Background(), map[string]interface{}{"year": tt.value}, rules, nil)
		require.NoError(t, err)
		if tt.valid {
			assert.Empty(t, got, "value %v", tt.value)
		} else {
			require.Len(t, got, 1, "value %v", tt.value)
			assert.Equal(t, "range", got[0].Validation)
		}
	}
}

func TestValidateAllIn(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "direction", Rules: "required|in:asc,desc"}}

	got, err := v.ValidateAll(context.Background(), map[string]interface{}{"direction": "sideways"}, rules, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].Validation)

	got, err = v.ValidateAll(context.Background(), map[string]interface{}{"direction": "desc"}, rules, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateAllEmail(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "email", Rules: "required|email"}}

	got, err := v.ValidateAll(context.Background(), map[string]interface{}{"email": "not-an-email"}, rules, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "email", got[0].Validation)

	got, err = v.ValidateAll(context.Background(), map[string]interface{}{"email": "ana@example.com"}, rules, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateAllConfirmed(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{{Field: "password", Rules: "required|min:6|confirmed"}}

	data := map[string]interface{}{"password": "segredo", "password_confirmation": "diferente"}
	got, err := v.ValidateAll(context.Background(), data, rules, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "confirmed", got[0].Validation)

	data["password_confirmation"] = "segredo"
	got, err = v.ValidateAll(context.Background(), data, rules, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateAllExists(t *testing.T) {
	v := newTestValidator(map[string]bool{"artists.id.7": true})
	rules := RuleSet{{Field: "id", Rules: "required|exists:artists,id"}}

	got, err := v.ValidateAll(context.Background(), map[string]interface{}{"id": "7"}, rules, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = v.ValidateAll(context.Background(), map[string]interface{}{"id": "8"}, rules, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "exists", got[0].Validation)
}

func TestValidateAllExistsInfrastructureError(t *testing.T) {
	v := New(&fakeExists{err: errors.New("connection refused")})
	rules := RuleSet{{Field: "id", Rules: "required|exists:artists,id"}}

	_, err := v.ValidateAll(context.Background(), map[string]interface{}{"id": "7"}, rules, nil)
	assert.Error(t, err)
}

func TestValidateAllMessageLookup(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{
		{Field: "id", Rules: "required"},
		{Field: "name", Rules: "required"},
	}
	messages := Messages{
		"required":    "Campo obrigatório",
		"id.required": "Informe o identificador",
	}

	got, err := v.ValidateAll(context.Background(), map[string]interface{}{}, rules, messages)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Informe o identificador", got[0].Message)
	assert.Equal(t, "Campo obrigatório", got[1].Message)
}

func TestValidateAllOrderFollowsRuleSet(t *testing.T) {
	v := newTestValidator(nil)
	rules := RuleSet{
		{Field: "direction", Rules: "required"},
		{Field: "columnName", Rules: "required"},
		{Field: "page", Rules: "required"},
		{Field: "perPage", Rules: "required"},
	}

	got, err := v.ValidateAll(context.Background(), map[string]interface{}{}, rules, nil)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "direction", got[0].Field)
	assert.Equal(t, "columnName", got[1].Field)
	assert.Equal(t, "page", got[2].Field)
	assert.Equal(t, "perPage", got[3].Field)
}

func TestOnly(t *testing.T) {
	data := map[string]interface{}{"name": "x", "admin": true}
	got := Only(data, "name", "email")
	assert.Equal(t, map[string]interface{}{"name": "x"}, got)
}

func TestToInt64(t *testing.T) {
	id, ok := ToInt64("42")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = ToInt64(float64(7))
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = ToInt64("abc")
	assert.False(t, ok)

	_, ok = ToInt64(1.5)
	assert.False(t, ok)
}
