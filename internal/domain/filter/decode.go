package filter

import (
	"bytes"
	"encoding/json"
)

// DecodeCriteria parses criteria from JSON. Two shapes are accepted:
//
//	{"code": "A", "amount": {"gt": 10}}
//	[{"field": "code", "operator": "eq", "value": "A"}]
//
// Numbers are kept as json.Number so they compile exactly as written.
func DecodeCriteria(data []byte) (Criteria, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Criteria{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var items []Item
		if err := dec.Decode(&items); err != nil {
			return nil, invalidOption("criteria", "criteria must be a JSON object or an array of {field, operator, value}")
		}
		return FromItems(items)
	}

	var c Criteria
	if err := dec.Decode(&c); err != nil {
		return nil, invalidOption("criteria", "criteria must be a JSON object or an array of {field, operator, value}")
	}
	return c, nil
}
