package filter

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoobjects/internal/core/apperror"
)

func TestBuildQueryString(t *testing.T) {
	tests := []struct {
		name string
		opts QueryOptions
		want string
	}{
		{
			name: "empty",
			opts: QueryOptions{},
			want: "",
		},
		{
			name: "limit and multi-field sort",
			opts: QueryOptions{Limit: 10, Sort: SortBy("CODE", "DATE_CREATED").Desc()},
			want: "sort=CODE%2CDATE_CREATED+desc&limit=10",
		},
		{
			name: "single field sort defaults to asc",
			opts: QueryOptions{Sort: &Sort{Fields: []string{"CODE"}}},
			want: "sort=CODE+asc",
		},
		{
			name: "stable order",
			opts: QueryOptions{
				Expand: []string{"TRANSACTIONS"},
				Count:  true,
				Q:      "CODE eq 'A'",
				Offset: 20,
				Limit:  10,
				Fields: []string{"CODE", "NAME"},
			},
			want: "fields=CODE%2CNAME&limit=10&offset=20&q=CODE+eq+%27A%27&count=true&expand=TRANSACTIONS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQueryString(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildQueryString_RoundTrip(t *testing.T) {
	opts := QueryOptions{
		Fields: []string{"CODE", "TITLE"},
		Sort:   SortBy("CODE", "DATE_CREATED").Desc(),
		Limit:  25,
		Offset: 50,
		Q:      "TITLE like 'A&B*' and CODE eq '100%'",
		Count:  true,
	}

	raw, err := BuildQueryString(opts)
	require.NoError(t, err)

	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	assert.Equal(t, "CODE,TITLE", values.Get("fields"))
	assert.Equal(t, "CODE,DATE_CREATED desc", values.Get("sort"))
	assert.Equal(t, "25", values.Get("limit"))
	assert.Equal(t, "50", values.Get("offset"))
	assert.Equal(t, opts.Q, values.Get("q"))
	assert.Equal(t, "true", values.Get("count"))

	back, err := ParseQueryString(raw)
	require.NoError(t, err)
	assert.Equal(t, opts, back)
}

func TestBuildQueryString_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts QueryOptions
	}{
		{"negative limit", QueryOptions{Limit: -1}},
		{"negative offset", QueryOptions{Offset: -5}},
		{"no sort fields", QueryOptions{Sort: &Sort{}}},
		{"bad direction", QueryOptions{Sort: &Sort{Fields: []string{"CODE"}, Direction: "up"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQueryString(tt.opts)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQueryOption), "got %v", err)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"field", `["CODE"]`, "CODE asc"},
		{"field and direction", `["CODE","desc"]`, "CODE desc"},
		{"fields", `[["CODE","DATE_CREATED"]]`, "CODE,DATE_CREATED asc"},
		{"fields and direction", `[["CODE","DATE_CREATED"],"DESC"]`, "CODE,DATE_CREATED desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))

			s, err := ParseSort(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestParseSort_Invalid(t *testing.T) {
	for _, raw := range []string{`[]`, `"CODE"`, `[1]`, `["CODE","sideways"]`, `["A","asc","x"]`, `[["A",2]]`, `["CODE",1]`} {
		var v any
		require.NoError(t, json.Unmarshal([]byte(raw), &v))

		_, err := ParseSort(v)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQueryOption), raw)
	}
}
