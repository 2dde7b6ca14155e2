package schema

import (
	"fmt"
	"strings"
)

// TypeConflictError reports one column identifier bound to two different
// derived types within a registration batch.
type TypeConflictError struct {
	Column       Ident
	FirstEntity  Ident
	FirstType    string
	SecondEntity Ident
	SecondType   string
}

// Error implements the error interface
func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("column %s: derived type %s in %s conflicts with %s in %s",
		e.Column, e.FirstType, e.FirstEntity, e.SecondType, e.SecondEntity)
}

// NameCollisionError reports an entity identifier that equals a column
// identifier in the same batch.
type NameCollisionError struct {
	Entity Ident
	Owner  Ident
}

// Error implements the error interface
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("entity %s collides with a column of %s", e.Entity, e.Owner)
}

// ConsistencyError aggregates every conflict found by the consistency
// passes over one batch.
type ConsistencyError struct {
	TypeConflicts  []*TypeConflictError
	NameCollisions []*NameCollisionError
}

// HasErrors returns true if any conflict was recorded
func (e *ConsistencyError) HasErrors() bool {
	return len(e.TypeConflicts) > 0 || len(e.NameCollisions) > 0
}

// Error implements the error interface
func (e *ConsistencyError) Error() string {
	var lines []string
	for _, c := range e.TypeConflicts {
		lines = append(lines, "  - "+c.Error())
	}
	for _, c := range e.NameCollisions {
		lines = append(lines, "  - "+c.Error())
	}
	if len(lines) == 0 {
		return "inconsistent batch"
	}
	if len(lines) == 1 {
		return "inconsistent batch: " + strings.TrimPrefix(lines[0], "  - ")
	}
	return fmt.Sprintf("inconsistent batch (%d conflicts):\n%s", len(lines), strings.Join(lines, "\n"))
}

// CycleError reports a cycle among composite types discovered during
// validator derivation.
type CycleError struct {
	Path []Ident
}

// Error implements the error interface
func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, ident := range e.Path {
		names[i] = ident.String()
	}
	return fmt.Sprintf("composite type cycle: %s", strings.Join(names, " -> "))
}
