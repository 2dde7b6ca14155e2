package schema

import (
	"fmt"

	"github.com/relspec/relspec/validate"
)

// Derive resolves one column to its value validator against a snapshot.
// A nil validator with a nil error means the column's type has no known
// mapping; such columns stay registered but unvalidated. The only error is
// a CycleError, raised when composite types refer back to themselves.
//
// Derivation is deterministic: identical descriptors against an identical
// snapshot produce validators with identical expressions.
func Derive(col *Column, view Snapshot) (validate.Validator, error) {
	return newDeriver(view).column(col, col.Ident.Scope)
}

// deriver derives validators for one registration call. Composite record
// validators are memoized so every column sharing a composite type shares
// one validator, and the memo doubles as the done-set for cycle detection.
type deriver struct {
	view     Snapshot
	records  map[Ident]*validate.RecordValidator
	visiting map[Ident]bool
	path     []Ident
}

func newDeriver(view Snapshot) *deriver {
	return &deriver{
		view:     view,
		records:  make(map[Ident]*validate.RecordValidator),
		visiting: make(map[Ident]bool),
	}
}

// column derives the full validator for a column: the base validator for
// its type, then the transform, nullable, and array wraps in that order.
// For array columns the fold runs over the element, so the transform and
// nullable wraps land inside the array wrap.
func (d *deriver) column(col *Column, scope string) (validate.Validator, error) {
	if col.Category == CategoryArray {
		if col.Element == nil {
			return nil, nil
		}
		elem, err := d.base(col.Element, scope)
		if err != nil || elem == nil {
			return nil, err
		}
		return &validate.ArrayValidator{Elem: d.wrap(elem, col)}, nil
	}

	base, err := d.base(col, scope)
	if err != nil || base == nil {
		return nil, err
	}
	return d.wrap(base, col), nil
}

func (d *deriver) wrap(inner validate.Validator, col *Column) validate.Validator {
	if col.Transform != nil {
		inner = &validate.TransformValidator{
			Name:    col.Transform.Name,
			Project: col.Transform.Project,
			Inner:   inner,
		}
	}
	if !col.NotNull {
		inner = &validate.OptionalValidator{Inner: inner}
	}
	return inner
}

// base resolves a column's type to its unwrapped validator:
//
//  1. a composite entity with the column's type name yields that entity's
//     record validator,
//  2. an enum entity yields its bare value-set validator (any transform
//     reaches the column through propagation, so wrapping here would apply
//     it twice),
//  3. an enum-flagged column without a registered entity validates against
//     its looked-up value set,
//  4. a bounded character column validates as a string capped at the
//     declared maximum,
//  5. anything else falls through to the built-in type table.
func (d *deriver) base(col *Column, scope string) (validate.Validator, error) {
	if entity, ok := d.view.EntityByTypeName(scope, col.TypeName); ok {
		switch entity.Kind {
		case KindComposite:
			return d.record(entity)
		case KindEnum:
			return &validate.EnumValidator{Values: entity.EnumValues}, nil
		}
	}

	if col.IsEnum {
		if len(col.EnumValues) == 0 {
			return nil, nil
		}
		return &validate.EnumValidator{Values: col.EnumValues}, nil
	}

	if col.Bounded() && isCharType(col.TypeName) {
		return &validate.AllValidator{Validators: []validate.Validator{
			validate.StringValidator{},
			validate.RuneLimitValidator{Max: col.MaxRunes()},
		}}, nil
	}

	if v, ok := builtinValidator(col.TypeName); ok {
		return v, nil
	}
	return nil, nil
}

// record builds the memoized record validator for a composite or table
// entity: every column must be present when not null, and present values
// check against their column validators.
func (d *deriver) record(entity *Entity) (*validate.RecordValidator, error) {
	if rec, ok := d.records[entity.Ident]; ok {
		return rec, nil
	}
	if d.visiting[entity.Ident] {
		cycle := append(append([]Ident{}, d.path...), entity.Ident)
		return nil, &CycleError{Path: cycle}
	}

	d.visiting[entity.Ident] = true
	d.path = append(d.path, entity.Ident)
	defer func() {
		delete(d.visiting, entity.Ident)
		d.path = d.path[:len(d.path)-1]
	}()

	rec := &validate.RecordValidator{
		Name:     entity.Ident.String(),
		Required: entity.RequiredColumns(),
		Fields:   make(map[string]validate.Validator),
	}
	for _, col := range entity.OrderedColumns() {
		rec.Columns = append(rec.Columns, col.Ident.Name)
		v, err := d.column(col, entity.Ident.Scope)
		if err != nil {
			return nil, err
		}
		if v != nil {
			rec.Fields[col.Ident.Name] = v
		}
	}

	d.records[entity.Ident] = rec
	return rec, nil
}

// typeLabel names a column's derived type for conflict reporting. Unlike
// derivation it is total: columns without a validator still get a label.
func typeLabel(col *Column, scope string, view Snapshot) string {
	if col.Category == CategoryArray && col.Element != nil {
		return "array<" + typeLabel(col.Element, scope, view) + ">"
	}
	if entity, ok := view.EntityByTypeName(scope, col.TypeName); ok {
		return entity.Ident.String()
	}
	if col.Bounded() && isCharType(col.TypeName) {
		return fmt.Sprintf("%s(%d)", col.TypeName, col.TypeDatum)
	}
	return col.TypeName
}

func isCharType(typeName string) bool {
	switch typeName {
	case "varchar", "char", "bpchar", "character", "character varying", "nvarchar", "text", "citext":
		return true
	default:
		return false
	}
}

// builtinValidator maps raw scalar type names onto validators. Names stay
// backend-flavored on purpose; both backends normalize into this set.
func builtinValidator(typeName string) (validate.Validator, bool) {
	switch typeName {
	case "text", "varchar", "char", "bpchar", "character", "citext", "name":
		return validate.StringValidator{}, true
	case "int2", "int4", "int8", "integer", "smallint", "bigint", "serial", "bigserial", "smallserial", "oid":
		return validate.IntegerValidator{}, true
	case "float4", "float8", "real":
		return validate.FloatValidator{}, true
	case "numeric", "decimal", "money":
		return validate.NumericValidator{}, true
	case "bool", "boolean":
		return validate.BoolValidator{}, true
	case "uuid":
		return validate.UUIDValidator{}, true
	case "timestamp", "timestamptz", "datetime":
		return validate.TimestampValidator{}, true
	case "date":
		return validate.DateValidator{}, true
	case "time", "timetz":
		return validate.TimeValidator{}, true
	case "json", "jsonb":
		return validate.JSONValidator{}, true
	case "bytea", "blob":
		return validate.BytesValidator{}, true
	default:
		return nil, false
	}
}
