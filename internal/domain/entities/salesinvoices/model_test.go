package salesinvoices

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// cannedRequester answers every call with the same JSON payload.
type cannedRequester struct {
	paths    []string
	response string
}

func (r *cannedRequester) Do(_ context.Context, _, path string, _, out any) error {
	r.paths = append(r.paths, path)
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(r.response), out)
}

func TestClient_DecodesDates(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		created     string
		wantDate    time.Time
		wantCreated *time.Time
	}{
		{
			name:     "zone-less wire form",
			date:     `"2024-03-01T00:00:00"`,
			created:  `null`,
			wantDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "rfc3339 with created stamp",
			date:        `"2024-03-01T08:30:00Z"`,
			created:     `"2024-02-28T17:45:12"`,
			wantDate:    time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
			wantCreated: ptr(time.Date(2024, 2, 28, 17, 45, 12, 0, time.UTC)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := `{"INTERNAL_REFERENCE":5,"NUMBER":"SF-0005","DATE":` + tt.date +
				`,"DATE_CREATED":` + tt.created + `,"TOTAL_NET":118.5}`
			req := &cannedRequester{response: record}
			client := NewClient(req)

			invoice, err := client.GetByID(context.Background(), 5, filter.QueryOptions{})
			require.NoError(t, err)
			assert.True(t, tt.wantDate.Equal(invoice.Date.Time), "date %v", invoice.Date.Time)
			assert.Equal(t, "SF-0005", invoice.Number)
			if tt.wantCreated == nil {
				assert.Nil(t, invoice.DateCreated)
			} else {
				require.NotNil(t, invoice.DateCreated)
				assert.True(t, tt.wantCreated.Equal(invoice.DateCreated.Time))
			}

			req.response = `{"items":[` + record + `],"count":1}`
			page, err := client.Search(context.Background(), filter.Criteria{
				"date": filter.Ops{filter.GreaterOrEqual: invoice.Date},
			}, filter.QueryOptions{})
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.True(t, tt.wantDate.Equal(page.Items[0].Date.Time))
		})
	}
}

func TestClient_SearchByDate(t *testing.T) {
	req := &cannedRequester{response: `{"items":[],"count":0}`}
	from := filter.NewDateTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	_, err := NewClient(req).Search(context.Background(), filter.Criteria{
		"date": filter.Ops{filter.GreaterOrEqual: from},
	}, filter.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/salesInvoices?q=DATE+gte+%272024-03-01T00%3A00%3A00%27"}, req.paths)
}

func TestDescriptor_DateFields(t *testing.T) {
	def := Descriptor()
	for _, name := range []string{"date", "dateCreated"} {
		f, ok := def.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, metadata.TypeDate, f.Type, name)
	}
}

func ptr(t time.Time) *time.Time { return &t }
