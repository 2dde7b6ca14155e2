package schema

import "sort"

// CheckConsistency runs the two declaration-keyspace passes over a batch:
// no column identifier may resolve to two different derived types, and no
// entity identifier may equal a column identifier. Conflicts are collected
// rather than reported one at a time. The scope of both passes is the
// batch; previously committed batches are not revisited.
//
// Returns nil when the batch is consistent.
func CheckConsistency(batch []*Entity, view Snapshot) *ConsistencyError {
	cerr := &ConsistencyError{}

	ordered := make([]*Entity, len(batch))
	copy(ordered, batch)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Ident.String() < ordered[j].Ident.String()
	})

	type binding struct {
		entity Ident
		label  string
	}
	bindings := make(map[Ident]binding)

	for _, entity := range ordered {
		for _, col := range entity.OrderedColumns() {
			label := typeLabel(col, entity.Ident.Scope, view)
			prev, ok := bindings[col.Ident]
			if !ok {
				bindings[col.Ident] = binding{entity: entity.Ident, label: label}
				continue
			}
			if prev.label != label {
				cerr.TypeConflicts = append(cerr.TypeConflicts, &TypeConflictError{
					Column:       col.Ident,
					FirstEntity:  prev.entity,
					FirstType:    prev.label,
					SecondEntity: entity.Ident,
					SecondType:   label,
				})
			}
		}
	}

	for _, entity := range ordered {
		if owner, ok := bindings[entity.Ident]; ok {
			cerr.NameCollisions = append(cerr.NameCollisions, &NameCollisionError{
				Entity: entity.Ident,
				Owner:  owner.entity,
			})
		}
	}

	if !cerr.HasErrors() {
		return nil
	}
	return cerr
}
