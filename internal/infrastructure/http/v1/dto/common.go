// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"encoding/json"

	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// --- List Response ---

// ListResponse wraps one page of remote records.
type ListResponse struct {
	Items      []domain.Record `json:"items"`
	Count      int             `json:"count"`
	TotalCount int             `json:"totalCount,omitempty"`
	Limit      int             `json:"limit,omitempty"`
	Offset     int             `json:"offset,omitempty"`
}

// FromListResult converts a remote page.
func FromListResult(r domain.ListResult[domain.Record]) ListResponse {
	items := r.Items
	if items == nil {
		items = []domain.Record{}
	}
	return ListResponse{
		Items:      items,
		Count:      r.Count,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- Query compilation ---

// QueryOptionsRequest is the JSON form of filter.QueryOptions. Sort accepts
// the tuple shapes ["CODE"], ["CODE","desc"], [["CODE","NAME"]] and
// [["CODE","NAME"],"desc"].
type QueryOptionsRequest struct {
	Fields []string `json:"fields"`
	Sort   []any    `json:"sort"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Q      string   `json:"q"`
	Count  bool     `json:"count"`
	Expand []string `json:"expand"`
}

// ToOptions converts the request into query options.
func (r QueryOptionsRequest) ToOptions() (filter.QueryOptions, error) {
	opts := filter.QueryOptions{
		Fields: r.Fields,
		Limit:  r.Limit,
		Offset: r.Offset,
		Q:      r.Q,
		Count:  r.Count,
		Expand: r.Expand,
	}
	if len(r.Sort) > 0 {
		sort, err := filter.ParseSort(r.Sort)
		if err != nil {
			return opts, err
		}
		opts.Sort = sort
	}
	return opts, nil
}

// CompileRequest asks the gateway to compile criteria without calling the API.
// Criteria is either an object of field -> value or an array of filter items.
type CompileRequest struct {
	Entity   string              `json:"entity"`
	Criteria json.RawMessage     `json:"criteria"`
	Options  QueryOptionsRequest `json:"options"`
}

// CompileResponse carries the compiled pieces.
type CompileResponse struct {
	Q           string `json:"q"`
	QueryString string `json:"queryString"`
	Path        string `json:"path,omitempty"`
}

// --- Entities ---

// EntitySummary is the listing form of an entity descriptor.
type EntitySummary struct {
	Name    string   `json:"name"`
	Label   string   `json:"label,omitempty"`
	Path    string   `json:"path"`
	Fields  int      `json:"fields"`
	Actions []string `json:"actions,omitempty"`
}

// FromEntityDef summarizes a descriptor.
func FromEntityDef(d metadata.EntityDef) EntitySummary {
	actions := make([]string, 0, len(d.Actions))
	for _, a := range d.Actions {
		actions = append(actions, a.Name)
	}
	return EntitySummary{
		Name:    d.Name,
		Label:   d.Label,
		Path:    d.Path,
		Fields:  len(d.Fields),
		Actions: actions,
	}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
