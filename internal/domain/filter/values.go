package filter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateTimeLayout is the textual form of time values inside filters.
const DateTimeLayout = "2006-01-02T15:04:05"

// literal renders a scalar as a filter literal: strings and times quoted,
// numbers and booleans bare.
func literal(field string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return quote(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	case decimal.Decimal:
		return val.String(), nil
	case time.Time:
		return quote(val.Format(DateTimeLayout)), nil
	case DateTime:
		return quote(val.String()), nil
	case *DateTime:
		if val != nil {
			return quote(val.String()), nil
		}
	}
	return "", invalidOption(field, fmt.Sprintf("unsupported value type %T for field %q", v, field))
}

// likeLiteral renders the pattern of a like comparison with the trailing
// wildcard the remote API expects.
func likeLiteral(field string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return quote(s + "*"), nil
	}
	lit, err := literal(field, v)
	if err != nil {
		return "", err
	}
	return quote(strings.Trim(lit, "'") + "*"), nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// listValues unpacks a slice or array value. ok is false for scalars.
// Byte slices are not lists.
func listValues(v any) ([]any, bool) {
	if _, isBytes := v.([]byte); isBytes {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// operatorObject normalizes an operator object. ok is false when v is not
// an object at all; unknown operator keys are an error.
func operatorObject(field string, v any) (Ops, bool, error) {
	switch val := v.(type) {
	case Ops:
		for op := range val {
			if _, known := ParseOperator(string(op)); !known {
				return nil, true, invalidOperator(field, string(op))
			}
		}
		return val, true, nil
	case map[Operator]any:
		return operatorObject(field, Ops(val))
	case map[string]any:
		ops := make(Ops, len(val))
		for name, operand := range val {
			op, known := ParseOperator(name)
			if !known {
				return nil, true, invalidOperator(field, name)
			}
			ops[op] = operand
		}
		return ops, true, nil
	}
	return nil, false, nil
}
