// Package introspect reads entity metadata out of a live database. Each
// backend produces the same raw descriptor shapes, so registration code
// never branches on the backend once introspection has run.
package introspect

import "context"

// EntityKind is the normalized kind an introspector reports for a named
// entity. Backend-specific codes (relkind characters, sqlite_master type
// strings) are mapped to these values before they leave this package.
type EntityKind string

const (
	KindTable     EntityKind = "table"
	KindView      EntityKind = "view"
	KindComposite EntityKind = "composite"
	KindEnum      EntityKind = "enum"
)

// Category is the single-letter type category code, following the
// classification Postgres uses (array, composite, enum, string, numeric,
// and so on). Backends without categories approximate from type names.
type Category byte

const (
	CategoryArray     Category = 'A'
	CategoryBoolean   Category = 'B'
	CategoryComposite Category = 'C'
	CategoryDateTime  Category = 'D'
	CategoryEnum      Category = 'E'
	CategoryNumeric   Category = 'N'
	CategoryString    Category = 'S'
	CategoryTimespan  Category = 'T'
	CategoryUser      Category = 'U'
	CategoryBitstring Category = 'V'
	CategoryUnknown   Category = 'X'
)

// RawEntity is one introspected entity, columns in attribute order.
// Enum entities have no columns; their values come from EnumValues.
type RawEntity struct {
	Scope   string
	Name    string
	Kind    EntityKind
	Columns []RawColumn
}

// RawColumn is one introspected column, reported exactly as the backend
// stores it. TypeDatum carries the type modifier when the backend has one
// (for bounded character types this is the declared length plus the
// four-byte length header) and is zero when absent. Element is set for
// array columns and describes the element type.
type RawColumn struct {
	Name      string
	TypeName  string
	NotNull   bool
	IsEnum    bool
	Category  Category
	TypeDatum int
	Element   *RawColumn
}

// EntityRef names one discoverable entity within a scope.
type EntityRef struct {
	Name string
	Kind EntityKind
}

// Introspector reads entity metadata from one database scope. All methods
// are safe for concurrent use.
type Introspector interface {
	// DescribeEntity returns the raw descriptor for a named entity, or an
	// error satisfying IsEntityNotFound when no such entity exists.
	DescribeEntity(ctx context.Context, scope, name string) (*RawEntity, error)

	// EnumValues returns the labels of a named enum type in declaration
	// order. Backends without enum types return no values.
	EnumValues(ctx context.Context, scope, typeName string) ([]string, error)

	// ListEntities returns every registrable entity in a scope, sorted by
	// name.
	ListEntities(ctx context.Context, scope string) ([]EntityRef, error)
}
