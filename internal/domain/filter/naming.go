package filter

import (
	"strings"
	"unicode"

	"logoobjects/internal/core/apperror"
)

// FieldResolver translates a logical field name to the remote column name.
type FieldResolver interface {
	Column(field string) (string, error)
}

// FieldMap is an explicit camelCase -> COLUMN table. Names missing from the
// table fall back to ToUpperSnake; names already in column form pass through.
// A nil FieldMap resolves every name by the fallback alone.
type FieldMap map[string]string

// Column implements FieldResolver.
func (m FieldMap) Column(field string) (string, error) {
	if col, ok := m[field]; ok {
		return col, nil
	}
	if field == "" {
		return "", invalidOption("field", "empty field name")
	}
	if IsColumnName(field) {
		return field, nil
	}
	return ToUpperSnake(field), nil
}

// StrictFieldMap resolves only the names its table declares, either as
// logical names or as column names.
type StrictFieldMap struct {
	Entity string
	Fields FieldMap
}

// Column implements FieldResolver.
func (m StrictFieldMap) Column(field string) (string, error) {
	if col, ok := m.Fields[field]; ok {
		return col, nil
	}
	for _, col := range m.Fields {
		if col == field {
			return col, nil
		}
	}
	return "", apperror.NewUnknownField(m.Entity, field)
}

// IsColumnName reports whether s is already an UPPER_SNAKE column name.
func IsColumnName(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '_':
		default:
			return false
		}
	}
	return hasLetter
}

// ToUpperSnake converts a camelCase name to UPPER_SNAKE_CASE.
// Acronyms stay together: "taxID" -> "TAX_ID", "httpURLPath" -> "HTTP_URL_PATH".
// Digits never start a new word: "address1" -> "ADDRESS1".
func ToUpperSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ToLowerCamel converts an UPPER_SNAKE column or a Go field name to the
// logical camelCase name used in criteria.
func ToLowerCamel(name string) string {
	if strings.Contains(name, "_") || IsColumnName(name) {
		parts := strings.Split(strings.ToLower(name), "_")
		var b strings.Builder
		for i, p := range parts {
			if p == "" {
				continue
			}
			if i > 0 && b.Len() > 0 {
				b.WriteString(strings.ToUpper(p[:1]) + p[1:])
				continue
			}
			b.WriteString(p)
		}
		return b.String()
	}

	// Go identifier: lower the leading run of capitals ("ID" -> "id", "VATRate" -> "vatRate").
	runes := []rune(name)
	for i := 0; i < len(runes) && unicode.IsUpper(runes[i]); i++ {
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
