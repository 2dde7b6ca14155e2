package schema

import (
	"github.com/relspec/relspec/validate"
)

// Declarations is the output of one registration call: the normalized
// batch plus every validator derived from it. Downstream layers key into
// the maps by identifier; columns whose types had no mapping are simply
// absent from Columns.
type Declarations struct {
	// Entities is the batch in sorted identifier order.
	Entities []*Entity

	// Columns maps column identifiers to their derived validators.
	Columns map[Ident]validate.Validator

	// Projections maps entity identifiers to any-subset record validators
	// for read results.
	Projections map[Ident]*validate.RecordValidator

	// Inserts maps insert identifiers to all-required-fields record
	// validators for write payloads.
	Inserts map[Ident]*validate.RecordValidator

	// Enums maps enum entity identifiers to their value-set validators,
	// wrapped with the entity's transform when it has one.
	Enums map[Ident]validate.Validator
}

// emitDeclarations derives every validator the batch declares. The deriver
// memoizes composite records across the whole batch, so a composite used
// as both an entity and a column type yields one shared validator.
func emitDeclarations(batch []*Entity, d *deriver) (*Declarations, error) {
	decls := &Declarations{
		Entities:    batch,
		Columns:     make(map[Ident]validate.Validator),
		Projections: make(map[Ident]*validate.RecordValidator),
		Inserts:     make(map[Ident]*validate.RecordValidator),
		Enums:       make(map[Ident]validate.Validator),
	}

	for _, entity := range batch {
		if entity.Kind == KindEnum {
			decls.Enums[entity.Ident] = emitEnum(entity)
			continue
		}

		insert, err := d.record(entity)
		if err != nil {
			return nil, err
		}
		decls.Inserts[entity.InsertIdent] = insert

		projection := &validate.RecordValidator{
			Name:    entity.Ident.String(),
			Columns: insert.Columns,
			Fields:  insert.Fields,
		}
		decls.Projections[entity.Ident] = projection

		for _, col := range entity.OrderedColumns() {
			v, err := d.column(col, entity.Ident.Scope)
			if err != nil {
				return nil, err
			}
			if v != nil {
				decls.Columns[col.Ident] = v
			}
		}
	}
	return decls, nil
}

// emitEnum builds an enum entity's own declaration: the bare value set,
// wrapped with the entity transform when one is attached. Columns typed by
// the enum reuse the bare validator and carry the transform themselves, so
// only this declaration wraps it here.
func emitEnum(entity *Entity) validate.Validator {
	var v validate.Validator = &validate.EnumValidator{Values: entity.EnumValues}
	if entity.Transform != nil {
		v = &validate.TransformValidator{
			Name:    entity.Transform.Name,
			Project: entity.Transform.Project,
			Inner:   v,
		}
	}
	return v
}
