package filter

import (
	"fmt"
	"sort"
	"strings"
)

// BuildSearchQuery compiles criteria into a filter expression such as
//
//	CODE eq 'ABC' and PRICE gte 100 and PRICE lte 500
//
// Fields are emitted in sorted key order and operators in a fixed order, so
// equal input always yields the same string. An empty result means there is
// nothing to filter on and the caller should omit the q parameter.
// A nil resolver uses the camelCase -> UPPER_SNAKE fallback.
func BuildSearchQuery(criteria Criteria, fields FieldResolver) (string, error) {
	if fields == nil {
		fields = FieldMap(nil)
	}

	keys := make([]string, 0, len(criteria))
	for k, v := range criteria {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	for _, key := range keys {
		column, err := fields.Column(key)
		if err != nil {
			return "", err
		}
		fieldConds, err := compileField(key, column, criteria[key])
		if err != nil {
			return "", err
		}
		conds = append(conds, fieldConds...)
	}

	return strings.Join(conds, " and "), nil
}

// BuildQuery joins raw filter conditions with "and", skipping empty ones.
func BuildQuery(conditions ...string) string {
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " and ")
}

func compileField(field, column string, value any) ([]string, error) {
	ops, isObject, err := operatorObject(field, value)
	if err != nil {
		return nil, err
	}
	if isObject {
		return compileOps(field, column, ops)
	}

	if values, isList := listValues(value); isList {
		cond, err := orEqual(field, column, values)
		if err != nil {
			return nil, err
		}
		return []string{cond}, nil
	}

	lit, err := literal(field, value)
	if err != nil {
		return nil, err
	}
	return []string{column + " eq " + lit}, nil
}

func compileOps(field, column string, ops Ops) ([]string, error) {
	conds := make([]string, 0, len(ops))
	for _, op := range operatorOrder {
		operand, ok := ops[op]
		if !ok || operand == nil {
			continue
		}

		values, isList := listValues(operand)
		switch {
		case op == InList && isList:
			cond, err := orEqual(field, column, values)
			if err != nil {
				return nil, err
			}
			conds = append(conds, cond)
			continue
		case op == InList:
			op = Equal
		case isList:
			return nil, invalidOption(field, fmt.Sprintf("operator %s on field %q expects a single value", op, field))
		}

		var (
			lit string
			err error
		)
		if op == Like {
			lit, err = likeLiteral(field, operand)
		} else {
			lit, err = literal(field, operand)
		}
		if err != nil {
			return nil, err
		}
		conds = append(conds, column+" "+string(op)+" "+lit)
	}
	return conds, nil
}

// orEqual renders (COL eq V1 or COL eq V2 ...).
func orEqual(field, column string, values []any) (string, error) {
	if len(values) == 0 {
		return "", invalidOption(field, fmt.Sprintf("empty value list for field %q", field))
	}
	parts := make([]string, len(values))
	for i, v := range values {
		if _, nested := listValues(v); nested {
			return "", invalidOption(field, fmt.Sprintf("nested list in field %q", field))
		}
		lit, err := literal(field, v)
		if err != nil {
			return "", err
		}
		parts[i] = column + " eq " + lit
	}
	return "(" + strings.Join(parts, " or ") + ")", nil
}
