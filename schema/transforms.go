package schema

// PropagateEnumTransforms copies the transform of each enum entity onto
// the batch columns typed by it, including array-of-enum columns. A
// transform already present on a column always wins, which also makes the
// pass idempotent: re-running it over the same batch changes nothing.
func PropagateEnumTransforms(batch []*Entity, view Snapshot) {
	for _, entity := range batch {
		for _, col := range entity.Columns {
			if col.Transform != nil {
				continue
			}
			ref := enumTypeRef(col)
			if ref == "" {
				continue
			}
			target, ok := view.EntityByTypeName(entity.Ident.Scope, ref)
			if !ok || target.Kind != KindEnum || target.Transform == nil {
				continue
			}
			col.Transform = target.Transform
		}
	}
}

// enumTypeRef returns the enum type name a column refers to, directly or
// through its array element type.
func enumTypeRef(col *Column) string {
	if col.IsEnum {
		return col.TypeName
	}
	if col.Category == CategoryArray && col.Element != nil && col.Element.IsEnum {
		return col.Element.TypeName
	}
	return ""
}
