package schema

import (
	"fmt"

	"github.com/relspec/relspec/introspect"
)

// Declaration is one caller-declared entity to register: which entity to
// introspect plus the metadata introspection cannot see. Relations carry
// join metadata for downstream query planning, Transform attaches a value
// mapping to an enum type, and ColumnTransforms attach mappings to
// individual columns by local name.
type Declaration struct {
	Scope            string
	Name             string
	Relations        map[string]Relation
	Transform        *Transform
	ColumnTransforms map[string]*Transform
}

// Normalize maps one raw introspected entity into a uniform descriptor.
// It is pure: array element types and enum value sets that depend on other
// entities are resolved afterwards against the effective snapshot.
func Normalize(raw *introspect.RawEntity, decl Declaration) (*Entity, error) {
	kind, err := normalizeKind(raw.Kind)
	if err != nil {
		return nil, fmt.Errorf("normalize %s.%s: %w", raw.Scope, raw.Name, err)
	}

	entity := NewEntity(NewIdent(raw.Scope, raw.Name), kind)
	entity.Relations = decl.Relations

	if kind == KindEnum {
		entity.Transform = decl.Transform
		return entity, nil
	}

	entity.InsertIdent = NewIdent(raw.Scope, raw.Name+"-insert")

	for i, rawCol := range raw.Columns {
		col := normalizeColumn(rawCol, raw.Scope)
		col.Position = i + 1
		col.Transform = decl.ColumnTransforms[rawCol.Name]
		entity.Columns[col.Ident] = col
	}
	return entity, nil
}

func normalizeColumn(raw introspect.RawColumn, scope string) *Column {
	col := &Column{
		Ident:     NewIdent(scope, raw.Name),
		TypeName:  raw.TypeName,
		Category:  normalizeCategory(raw),
		NotNull:   raw.NotNull,
		IsEnum:    raw.IsEnum,
		TypeDatum: raw.TypeDatum,
	}
	if raw.Element != nil {
		elem := normalizeColumn(*raw.Element, scope)
		elem.Ident = Ident{}
		col.Element = elem
	}
	return col
}

func normalizeKind(kind introspect.EntityKind) (EntityKind, error) {
	switch kind {
	case introspect.KindTable:
		return KindTable, nil
	case introspect.KindView:
		return KindView, nil
	case introspect.KindComposite:
		return KindComposite, nil
	case introspect.KindEnum:
		return KindEnum, nil
	default:
		return 0, fmt.Errorf("kind %q is not registrable", kind)
	}
}

func normalizeCategory(raw introspect.RawColumn) ColumnCategory {
	if raw.IsEnum {
		return CategoryEnum
	}
	switch raw.Category {
	case introspect.CategoryArray:
		return CategoryArray
	case introspect.CategoryComposite:
		return CategoryComposite
	case introspect.CategoryEnum:
		return CategoryEnum
	default:
		return CategoryScalar
	}
}

// resolveElements re-resolves array element types against the effective
// snapshot, which includes the in-flight batch. Backends that cannot flag
// element types as enums or composites (and elements referring to entities
// declared later in the same batch) get their flags fixed up here.
func resolveElements(batch []*Entity, view Snapshot) {
	for _, entity := range batch {
		for _, col := range entity.Columns {
			if col.Category != CategoryArray || col.Element == nil {
				continue
			}
			target, ok := view.EntityByTypeName(entity.Ident.Scope, col.Element.TypeName)
			if !ok {
				continue
			}
			switch target.Kind {
			case KindComposite:
				col.Element.Category = CategoryComposite
			case KindEnum:
				col.Element.Category = CategoryEnum
				col.Element.IsEnum = true
			}
		}
	}
}
