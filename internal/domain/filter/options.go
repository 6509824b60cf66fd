package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders results by one or more columns in a single direction.
type Sort struct {
	Fields    []string
	Direction Direction // empty means Asc
}

// SortBy sorts ascending by the given columns.
func SortBy(fields ...string) *Sort {
	return &Sort{Fields: fields, Direction: Asc}
}

// Desc switches the sort to descending.
func (s *Sort) Desc() *Sort {
	s.Direction = Desc
	return s
}

// String renders the wire form, e.g. "CODE,DATE_CREATED desc".
func (s *Sort) String() string {
	dir := s.Direction
	if dir == "" {
		dir = Asc
	}
	return strings.Join(s.Fields, ",") + " " + string(dir)
}

func (s *Sort) validate() error {
	if len(s.Fields) == 0 {
		return invalidOption("sort", "sort requires at least one field")
	}
	for _, f := range s.Fields {
		if strings.TrimSpace(f) == "" || strings.ContainsAny(f, ", ") {
			return invalidOption("sort", fmt.Sprintf("invalid sort field %q", f))
		}
	}
	switch s.Direction {
	case "", Asc, Desc:
		return nil
	}
	return invalidOption("sort", fmt.Sprintf("invalid sort direction %q", s.Direction))
}

// ParseSort decodes a sort tuple as it arrives from JSON. Accepted shapes:
//
//	["CODE"]
//	["CODE", "desc"]
//	[["CODE", "DATE_CREATED"]]
//	[["CODE", "DATE_CREATED"], "desc"]
func ParseSort(v any) (*Sort, error) {
	tuple, ok := listValues(v)
	if !ok || len(tuple) == 0 || len(tuple) > 2 {
		return nil, invalidOption("sort", "sort must be [field], [field, direction], [fields] or [fields, direction]")
	}

	s := &Sort{Direction: Asc}
	switch head := tuple[0].(type) {
	case string:
		s.Fields = []string{head}
	default:
		names, isList := listValues(head)
		if !isList {
			return nil, invalidOption("sort", fmt.Sprintf("unsupported sort field type %T", head))
		}
		for _, n := range names {
			name, isString := n.(string)
			if !isString {
				return nil, invalidOption("sort", fmt.Sprintf("unsupported sort field type %T", n))
			}
			s.Fields = append(s.Fields, name)
		}
	}

	if len(tuple) == 2 {
		dir, isString := tuple[1].(string)
		if !isString {
			return nil, invalidOption("sort", fmt.Sprintf("unsupported sort direction type %T", tuple[1]))
		}
		s.Direction = Direction(strings.ToLower(dir))
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// QueryOptions are the list parameters of a collection request.
// Zero values are omitted from the query string.
type QueryOptions struct {
	Fields []string // projection, column names
	Sort   *Sort
	Limit  int
	Offset int
	Q      string // raw filter; wins over criteria in Search
	Count  bool   // ask for total count metadata
	Expand []string
}

// IsZero reports whether no option is set.
func (o QueryOptions) IsZero() bool {
	return len(o.Fields) == 0 && o.Sort == nil && o.Limit == 0 && o.Offset == 0 &&
		o.Q == "" && !o.Count && len(o.Expand) == 0
}

// BuildQueryString encodes options as key=value pairs in the fixed order
// fields, sort, limit, offset, q, count, expand. The result has no leading
// "?" and is empty when no option is set.
func BuildQueryString(opts QueryOptions) (string, error) {
	if opts.Limit < 0 {
		return "", invalidOption("limit", fmt.Sprintf("limit must not be negative, got %d", opts.Limit))
	}
	if opts.Offset < 0 {
		return "", invalidOption("offset", fmt.Sprintf("offset must not be negative, got %d", opts.Offset))
	}

	pairs := make([]string, 0, 7)
	add := func(key, value string) {
		pairs = append(pairs, key+"="+url.QueryEscape(value))
	}

	if len(opts.Fields) > 0 {
		add("fields", strings.Join(opts.Fields, ","))
	}
	if opts.Sort != nil {
		if err := opts.Sort.validate(); err != nil {
			return "", err
		}
		add("sort", opts.Sort.String())
	}
	if opts.Limit > 0 {
		add("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		add("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Q != "" {
		add("q", opts.Q)
	}
	if opts.Count {
		add("count", "true")
	}
	if len(opts.Expand) > 0 {
		add("expand", strings.Join(opts.Expand, ","))
	}

	return strings.Join(pairs, "&"), nil
}

// ParseQueryString is the inverse of BuildQueryString for the scalar options.
// Sort is decoded from its wire form "A,B dir".
func ParseQueryString(raw string) (QueryOptions, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return QueryOptions{}, invalidOption("query", err.Error())
	}

	var opts QueryOptions
	if v := values.Get("fields"); v != "" {
		opts.Fields = strings.Split(v, ",")
	}
	if v := values.Get("sort"); v != "" {
		cols, dir, _ := strings.Cut(v, " ")
		opts.Sort = &Sort{Fields: strings.Split(cols, ","), Direction: Direction(dir)}
		if err := opts.Sort.validate(); err != nil {
			return QueryOptions{}, err
		}
	}
	if v := values.Get("limit"); v != "" {
		if opts.Limit, err = strconv.Atoi(v); err != nil {
			return QueryOptions{}, invalidOption("limit", "limit must be an integer")
		}
	}
	if v := values.Get("offset"); v != "" {
		if opts.Offset, err = strconv.Atoi(v); err != nil {
			return QueryOptions{}, invalidOption("offset", "offset must be an integer")
		}
	}
	opts.Q = values.Get("q")
	opts.Count = values.Get("count") == "true"
	if v := values.Get("expand"); v != "" {
		opts.Expand = strings.Split(v, ",")
	}
	return opts, nil
}
