package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoobjects/internal/core/apperror"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     string
	}{
		{
			name:     "string scalar",
			criteria: Criteria{"code": "ABC"},
			want:     "CODE eq 'ABC'",
		},
		{
			name:     "number scalar",
			criteria: Criteria{"cardType": 1},
			want:     "CARD_TYPE eq 1",
		},
		{
			name:     "boolean scalar",
			criteria: Criteria{"cancelled": false},
			want:     "CANCELLED eq false",
		},
		{
			name:     "decimal scalar",
			criteria: Criteria{"totalNet": decimal.RequireFromString("12.50")},
			want:     "TOTAL_NET eq 12.5",
		},
		{
			name:     "time scalar",
			criteria: Criteria{"date": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			want:     "DATE eq '2024-03-01T00:00:00'",
		},
		{
			name:     "embedded quote",
			criteria: Criteria{"title": "O'Brien"},
			want:     "TITLE eq 'O''Brien'",
		},
		{
			name:     "array is or of equality",
			criteria: Criteria{"tags": []string{"A", "B"}},
			want:     "(TAGS eq 'A' or TAGS eq 'B')",
		},
		{
			name:     "range on one field",
			criteria: Criteria{"price": Ops{GreaterOrEqual: 100, LessOrEqual: 500}},
			want:     "PRICE gte 100 and PRICE lte 500",
		},
		{
			name:     "like appends wildcard",
			criteria: Criteria{"code": Ops{Like: "ABC"}},
			want:     "CODE like 'ABC*'",
		},
		{
			name:     "in with list",
			criteria: Criteria{"code": Ops{InList: []any{"A", 2}}},
			want:     "(CODE eq 'A' or CODE eq 2)",
		},
		{
			name:     "in with scalar",
			criteria: Criteria{"code": Ops{InList: "A"}},
			want:     "CODE eq 'A'",
		},
		{
			name:     "decoded json object",
			criteria: Criteria{"price": map[string]any{"lt": 10.5, "ne": 3.0}},
			want:     "PRICE ne 3 and PRICE lt 10.5",
		},
		{
			name: "fields sorted and joined",
			criteria: Criteria{
				"salesmanCode": "S1",
				"arpCode":      Ops{Like: "120"},
				"totalNet":     Ops{Greater: 0},
			},
			want: "ARP_CODE like '120*' and SALESMAN_CODE eq 'S1' and TOTAL_NET gt 0",
		},
		{
			name:     "nil values skipped",
			criteria: Criteria{"code": nil, "name": "X"},
			want:     "NAME eq 'X'",
		},
		{
			name:     "column names pass through",
			criteria: Criteria{"INTERNAL_REFERENCE": 7},
			want:     "INTERNAL_REFERENCE eq 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSearchQuery(tt.criteria, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSearchQuery_Empty(t *testing.T) {
	got, err := BuildSearchQuery(Criteria{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = BuildSearchQuery(Criteria{"code": nil}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = BuildSearchQuery(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildSearchQuery_FieldMap(t *testing.T) {
	fields := FieldMap{"email": "E_MAIL", "definition": "DEFINITION_"}

	got, err := BuildSearchQuery(Criteria{"email": "a@b.c", "definition": Ops{Like: "Jo"}}, fields)
	require.NoError(t, err)
	assert.Equal(t, "DEFINITION_ like 'Jo*' and E_MAIL eq 'a@b.c'", got)
}

func TestBuildSearchQuery_Errors(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		fields   FieldResolver
		code     string
	}{
		{
			name:     "unknown operator",
			criteria: Criteria{"price": map[string]any{"between": []int{1, 2}}},
			code:     apperror.CodeInvalidOperator,
		},
		{
			name:     "unknown typed operator",
			criteria: Criteria{"price": Ops{"approx": 1}},
			code:     apperror.CodeInvalidOperator,
		},
		{
			name:     "list on scalar operator",
			criteria: Criteria{"price": Ops{GreaterOrEqual: []int{1, 2}}},
			code:     apperror.CodeInvalidQueryOption,
		},
		{
			name:     "empty list",
			criteria: Criteria{"code": []string{}},
			code:     apperror.CodeInvalidQueryOption,
		},
		{
			name:     "unsupported value",
			criteria: Criteria{"code": struct{}{}},
			code:     apperror.CodeInvalidQueryOption,
		},
		{
			name:     "strict table",
			criteria: Criteria{"nickname": "x"},
			fields:   StrictFieldMap{Entity: "banks", Fields: FieldMap{"code": "CODE"}},
			code:     apperror.CodeUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSearchQuery(tt.criteria, tt.fields)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestBuildSearchQuery_Idempotent(t *testing.T) {
	criteria := Criteria{
		"code":  Ops{Like: "A", NotEqual: "AX"},
		"price": Ops{GreaterOrEqual: 1, LessOrEqual: 9},
		"tags":  []string{"x", "y", "z"},
		"city":  "Istanbul",
	}

	first, err := BuildSearchQuery(criteria, nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := BuildSearchQuery(criteria, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFromItems(t *testing.T) {
	raw := `[{"field":"price","operator":"gte","value":100},{"field":"price","operator":"lte","value":500}]`
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(raw), &items))

	c, err := FromItems(items)
	require.NoError(t, err)

	got, err := BuildSearchQuery(c, nil)
	require.NoError(t, err)
	assert.Equal(t, "PRICE gte 100 and PRICE lte 500", got)

	_, err = FromItems([]Item{{Field: "a", Operator: "eq", Value: 1}, {Field: "a", Operator: "eq", Value: 2}})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQueryOption))

	_, err = FromItems([]Item{{Field: "a", Operator: "contains", Value: 1}})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperator))
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "CODE eq 'A' and PRICE gt 1", BuildQuery("CODE eq 'A'", "", "  PRICE gt 1 "))
	assert.Empty(t, BuildQuery())
}
