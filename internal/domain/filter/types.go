// Package filter compiles search criteria and query options into the
// OData-style query string understood by the Logo Objects REST API.
package filter

import "fmt"

// Operator is a comparison keyword of the remote filter syntax.
type Operator string

const (
	Equal          Operator = "eq"   // FIELD eq V
	NotEqual       Operator = "ne"   // FIELD ne V
	Greater        Operator = "gt"   // FIELD gt V
	GreaterOrEqual Operator = "gte"  // FIELD gte V
	Less           Operator = "lt"   // FIELD lt V
	LessOrEqual    Operator = "lte"  // FIELD lte V
	Like           Operator = "like" // FIELD like 'V*'
	InList         Operator = "in"   // (FIELD eq V1 or FIELD eq V2)
)

// operatorOrder is the order conditions are emitted for a single field.
var operatorOrder = []Operator{
	Equal, NotEqual, Greater, GreaterOrEqual, Less, LessOrEqual, Like, InList,
}

// ParseOperator maps an operator name to its Operator.
func ParseOperator(name string) (Operator, bool) {
	for _, op := range operatorOrder {
		if string(op) == name {
			return op, true
		}
	}
	return "", false
}

// Ops is an operator object: several comparisons applied to one field.
//
//	filter.Criteria{"price": filter.Ops{filter.GreaterOrEqual: 100, filter.LessOrEqual: 500}}
type Ops map[Operator]any

// Criteria maps logical (camelCase) field names to a scalar, a slice of
// scalars, or an operator object (Ops or a decoded JSON object).
// Nil values are treated as absent.
type Criteria map[string]any

// Set adds a field condition and returns the criteria for chaining.
func (c Criteria) Set(field string, value any) Criteria {
	c[field] = value
	return c
}

// IsEmpty reports whether no field carries a value.
func (c Criteria) IsEmpty() bool {
	for _, v := range c {
		if v != nil {
			return false
		}
	}
	return true
}

// Item is a single condition in list form, as used by clients that cannot
// express nested objects (CLI flags, form posts).
type Item struct {
	Field    string   `json:"field"`    // logical field name
	Operator Operator `json:"operator"` // comparison keyword
	Value    any      `json:"value"`    // scalar or list
}

// FromItems folds a list of items into Criteria. Items on the same field are
// merged into one operator object; repeating an operator on a field is rejected.
func FromItems(items []Item) (Criteria, error) {
	c := make(Criteria, len(items))
	for _, item := range items {
		op, ok := ParseOperator(string(item.Operator))
		if !ok {
			return nil, invalidOperator(item.Field, string(item.Operator))
		}
		existing, _ := c[item.Field].(Ops)
		if existing == nil {
			existing = Ops{}
			c[item.Field] = existing
		}
		if _, dup := existing[op]; dup {
			return nil, invalidOption(item.Field, fmt.Sprintf("operator %s repeated on field %q", op, item.Field))
		}
		existing[op] = item.Value
	}
	return c, nil
}
