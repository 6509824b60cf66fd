package metadata

import (
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"logoobjects/internal/domain/filter"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	dateTimeType = reflect.TypeOf(filter.DateTime{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

// Inspect derives an EntityDef from a model struct. The json tag of each
// exported field is the remote column; the logical name is the lower-camel
// Go field name. Slices of structs become table parts.
func Inspect(entity any, name, path string) EntityDef {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = t.Name()
	}

	def := EntityDef{
		Name:       name,
		Label:      name,
		Path:       path,
		Fields:     make([]FieldDef, 0),
		TableParts: make([]TablePartDef, 0),
	}

	inspectStruct(t, &def)

	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Handle embedded structs (flattening)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			inspectStruct(field.Type, def)
			continue
		}

		if field.PkgPath != "" { // unexported
			continue
		}

		column := columnName(field)
		if column == "-" {
			continue
		}

		// Slice of structs: TRANSACTIONS and friends
		if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct {
			def.TableParts = append(def.TableParts, TablePartDef{
				Name:    filter.ToLowerCamel(field.Name),
				Column:  column,
				Columns: inspectColumns(field.Type.Elem()),
			})
			continue
		}

		def.Fields = append(def.Fields, fieldDef(field, column))
	}
}

func inspectColumns(t reflect.Type) []FieldDef {
	cols := make([]FieldDef, 0)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		column := columnName(field)
		if column == "-" {
			continue
		}
		cols = append(cols, fieldDef(field, column))
	}
	return cols
}

func fieldDef(field reflect.StructField, column string) FieldDef {
	return FieldDef{
		Name:     filter.ToLowerCamel(field.Name),
		Column:   column,
		Type:     mapFieldType(field),
		ReadOnly: isReadOnly(field),
	}
}

func mapFieldType(field reflect.StructField) FieldType {
	t := field.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case timeType, dateTimeType:
		return TypeDate
	case decimalType:
		return TypeMoney
	}

	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if strings.HasSuffix(field.Name, "Ref") {
			return TypeReference
		}
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	default:
		return TypeString
	}
}

// columnName reads the json tag; without one the column follows the
// UPPER_SNAKE convention.
func columnName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return filter.ToUpperSnake(field.Name)
}

func isReadOnly(field reflect.StructField) bool {
	if tag, ok := field.Tag.Lookup("logo"); ok {
		return strings.Contains(tag, "readonly")
	}
	return false
}
