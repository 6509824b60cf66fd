// Package metadata describes Logo Objects entities: REST path, field-name
// table and remote actions. A descriptor is data, not generated code; one
// generic client serves every entity through it.
package metadata

import (
	"net/http"
	"sort"
	"strings"

	"logoobjects/internal/domain/filter"
)

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeNumber    FieldType = "number" // float
	TypeMoney     FieldType = "money"  // decimal
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeReference FieldType = "reference" // INTERNAL_REFERENCE of another record
)

// ActionScope tells whether an action addresses one record or the collection.
type ActionScope string

const (
	ScopeRecord     ActionScope = "record"     // /{path}/{id}/{Action}/...
	ScopeCollection ActionScope = "collection" // /{path}/{Action}/...
)

// EntityDef describes a remote entity.
type EntityDef struct {
	Name       string         `json:"name"`
	Label      string         `json:"label,omitempty"`
	Path       string         `json:"path"`
	Fields     []FieldDef     `json:"fields"`
	TableParts []TablePartDef `json:"tableParts,omitempty"`
	Actions    []ActionDef    `json:"actions,omitempty"`

	// Strict rejects criteria fields missing from Fields instead of
	// falling back to the camelCase -> UPPER_SNAKE convention.
	Strict bool `json:"strict,omitempty"`
}

// FieldDef maps a logical field to its remote column.
type FieldDef struct {
	Name     string    `json:"name"`   // camelCase, used in criteria
	Column   string    `json:"column"` // remote UPPER_SNAKE name
	Type     FieldType `json:"type"`
	ReadOnly bool      `json:"readOnly,omitempty"`
}

// TablePartDef describes a nested collection (lines), reachable through expand.
type TablePartDef struct {
	Name    string     `json:"name"`
	Column  string     `json:"column"`
	Columns []FieldDef `json:"columns"`
}

// ActionDef describes a remote procedure endpoint.
type ActionDef struct {
	Name   string      `json:"name"`   // path segment, e.g. "ApplyCampaign"
	Method string      `json:"method"` // GET or POST
	Scope  ActionScope `json:"scope"`
	Params []string    `json:"params,omitempty"` // positional path parameters
}

// RecordAction declares a GET or POST action on a single record.
func RecordAction(method, name string, params ...string) ActionDef {
	return ActionDef{Name: name, Method: method, Scope: ScopeRecord, Params: params}
}

// CollectionAction declares an action on the entity collection.
func CollectionAction(method, name string, params ...string) ActionDef {
	return ActionDef{Name: name, Method: method, Scope: ScopeCollection, Params: params}
}

// FieldMap returns the logical -> column table.
func (d EntityDef) FieldMap() filter.FieldMap {
	m := make(filter.FieldMap, len(d.Fields))
	for _, f := range d.Fields {
		m[f.Name] = f.Column
	}
	return m
}

// Resolver returns the field resolver used to compile criteria for this entity.
func (d EntityDef) Resolver() filter.FieldResolver {
	if d.Strict {
		return filter.StrictFieldMap{Entity: d.Name, Fields: d.FieldMap()}
	}
	return d.FieldMap()
}

// Columns lists remote column names in declaration order.
func (d EntityDef) Columns() []string {
	cols := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Column
	}
	return cols
}

// Field looks up a field by logical or column name.
func (d EntityDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name || f.Column == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Action looks up an action by name, case-insensitively.
func (d EntityDef) Action(name string) (ActionDef, bool) {
	for _, a := range d.Actions {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return ActionDef{}, false
}

// IsRead reports whether the action only reads.
func (a ActionDef) IsRead() bool {
	return a.Method == http.MethodGet
}

// Registry stores entity definitions.
type Registry struct {
	entities map[string]EntityDef
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityDef),
	}
}

func (r *Registry) Register(def EntityDef) {
	r.entities[strings.ToLower(def.Name)] = def
}

// EnforceFields switches every registered entity to strict field
// resolution: criteria naming a field outside the descriptor table fail
// with UNKNOWN_FIELD before any request is sent.
func (r *Registry) EnforceFields() {
	for key, def := range r.entities {
		def.Strict = true
		r.entities[key] = def
	}
}

// Get finds an entity by name or REST path, case-insensitively.
func (r *Registry) Get(name string) (EntityDef, bool) {
	key := strings.ToLower(name)
	if d, ok := r.entities[key]; ok {
		return d, true
	}
	for _, d := range r.entities {
		if strings.ToLower(d.Path) == key {
			return d, true
		}
	}
	return EntityDef{}, false
}

// List returns all definitions sorted by name.
func (r *Registry) List() []EntityDef {
	list := make([]EntityDef, 0, len(r.entities))
	for _, def := range r.entities {
		list = append(list, def)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
