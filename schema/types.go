// Package schema turns introspected database entities into registered
// descriptors with derived value validators. Registration is batch-oriented:
// a set of declared entities is normalized, checked for consistency, and
// committed to a registry in one step, and the caller gets back the derived
// validator declarations for every entity in the batch.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Ident is a namespaced identifier. Scope groups the entities of one module
// (usually the database schema name); Name is the entity or column name.
// Column identifiers share their module's scope, so two entities in one
// scope that declare the same column name declare the same identifier.
type Ident struct {
	Scope string `json:"scope"`
	Name  string `json:"name"`
}

// NewIdent creates an identifier in the given scope.
func NewIdent(scope, name string) Ident {
	return Ident{Scope: scope, Name: name}
}

// String returns the scope-qualified form, "scope/name".
func (i Ident) String() string {
	return i.Scope + "/" + i.Name
}

// MarshalText implements encoding.TextMarshaler so identifiers can key
// JSON maps.
func (i Ident) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Ident) UnmarshalText(text []byte) error {
	parts := strings.SplitN(string(text), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("malformed identifier %q, want scope/name", string(text))
	}
	i.Scope, i.Name = parts[0], parts[1]
	return nil
}

// EntityKind classifies a registered entity.
type EntityKind int

const (
	KindTable EntityKind = iota
	KindView
	KindComposite
	KindEnum
)

// String returns the kind name
func (k EntityKind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindView:
		return "view"
	case KindComposite:
		return "composite"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseEntityKind parses a kind name into an EntityKind
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "table":
		return KindTable, nil
	case "view":
		return KindView, nil
	case "composite":
		return KindComposite, nil
	case "enum":
		return KindEnum, nil
	default:
		return 0, fmt.Errorf("unknown entity kind: %s", s)
	}
}

// ColumnCategory classifies a column's type for derivation purposes.
// Categories the derivation rules do not branch on collapse to scalar.
type ColumnCategory int

const (
	CategoryScalar ColumnCategory = iota
	CategoryArray
	CategoryComposite
	CategoryEnum
)

// String returns the category name
func (c ColumnCategory) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryArray:
		return "array"
	case CategoryComposite:
		return "composite"
	case CategoryEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (c ColumnCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Transform is a named, reversible value mapping attached to an enum type
// or an individual column. Project maps an application value toward the
// stored form before validation; Restore maps a stored value back. Only the
// name travels in serialized descriptors.
type Transform struct {
	Name    string
	Project func(interface{}) (interface{}, error)
	Restore func(interface{}) (interface{}, error)
}

// Column describes one column of a registered entity.
type Column struct {
	// Ident is the column's identifier. Its scope is the owning module's
	// scope, not the owning entity, so identifiers can repeat across the
	// entities of a scope.
	Ident Ident `json:"ident"`

	// TypeName is the raw type name the backend reported.
	TypeName string `json:"type_name"`

	// Category drives derivation branching.
	Category ColumnCategory `json:"category"`

	// NotNull is true when the column rejects nulls.
	NotNull bool `json:"not_null"`

	// IsEnum marks columns whose type is an enum type.
	IsEnum bool `json:"is_enum,omitempty"`

	// TypeDatum is the type modifier when the backend reported one. For
	// bounded character types it is the declared length plus the four-byte
	// length header, so the usable maximum is TypeDatum - 4.
	TypeDatum int `json:"type_datum,omitempty"`

	// Element describes the element type of an array column.
	Element *Column `json:"element,omitempty"`

	// Transform applies before validation, either declared on the column
	// or propagated from the column's enum type.
	Transform *Transform `json:"-"`

	// EnumValues holds the value set for enum-typed columns whose type is
	// not registered as an entity, filled by a secondary lookup.
	EnumValues []string `json:"enum_values,omitempty"`

	// Position is the column's attribute position, starting at 1.
	Position int `json:"position"`
}

// Bounded returns true when the column carries a usable length bound.
func (c *Column) Bounded() bool {
	return c.TypeDatum > 0
}

// MaxRunes returns the usable maximum length of a bounded character column.
func (c *Column) MaxRunes() int {
	return c.TypeDatum - 4
}

// TransformName returns the attached transform's name, or "".
func (c *Column) TransformName() string {
	if c.Transform == nil {
		return ""
	}
	return c.Transform.Name
}

// RelationKind classifies a declared relation.
type RelationKind int

const (
	RelationBelongsTo RelationKind = iota
	RelationHasMany
	RelationHasOne
)

// String returns the relation kind name
func (k RelationKind) String() string {
	switch k {
	case RelationBelongsTo:
		return "belongs_to"
	case RelationHasMany:
		return "has_many"
	case RelationHasOne:
		return "has_one"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k RelationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseRelationKind parses a relation kind name
func ParseRelationKind(s string) (RelationKind, error) {
	switch s {
	case "belongs_to":
		return RelationBelongsTo, nil
	case "has_many":
		return RelationHasMany, nil
	case "has_one":
		return RelationHasOne, nil
	default:
		return 0, fmt.Errorf("unknown relation kind: %s", s)
	}
}

// Relation is declared join metadata carried on an entity for downstream
// query planning. Registration stores it verbatim.
type Relation struct {
	Kind          RelationKind `json:"kind"`
	Target        Ident        `json:"target"`
	LocalColumn   string       `json:"local_column"`
	ForeignColumn string       `json:"foreign_column"`
}

// Entity is one registered entity descriptor.
type Entity struct {
	// Ident names the entity.
	Ident Ident `json:"ident"`

	// Kind classifies the entity.
	Kind EntityKind `json:"kind"`

	// Columns maps column identifiers to descriptors. Enum entities have
	// no columns.
	Columns map[Ident]*Column `json:"columns,omitempty"`

	// InsertIdent names the entity's insert declaration. Empty for enums.
	InsertIdent Ident `json:"insert_ident"`

	// Relations holds declared join metadata keyed by relation name.
	Relations map[string]Relation `json:"relations,omitempty"`

	// Transform is the value mapping attached to an enum entity.
	Transform *Transform `json:"-"`

	// EnumValues is the value set of an enum entity, in declaration order.
	EnumValues []string `json:"enum_values,omitempty"`
}

// NewEntity creates an empty entity descriptor of the given kind.
func NewEntity(ident Ident, kind EntityKind) *Entity {
	return &Entity{
		Ident:   ident,
		Kind:    kind,
		Columns: make(map[Ident]*Column),
	}
}

// Column returns the column with the given local name.
func (e *Entity) Column(name string) (*Column, bool) {
	col, ok := e.Columns[NewIdent(e.Ident.Scope, name)]
	return col, ok
}

// OrderedColumns returns the entity's columns in attribute order.
func (e *Entity) OrderedColumns() []*Column {
	cols := make([]*Column, 0, len(e.Columns))
	for _, col := range e.Columns {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	return cols
}

// RequiredColumns returns the local names of not-null columns in attribute
// order.
func (e *Entity) RequiredColumns() []string {
	var names []string
	for _, col := range e.OrderedColumns() {
		if col.NotNull {
			names = append(names, col.Ident.Name)
		}
	}
	return names
}

// TypeName returns the entity's raw type name, which is its local name.
func (e *Entity) TypeName() string {
	return e.Ident.Name
}
