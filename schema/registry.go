package schema

import (
	"sort"
	"sync"
)

// Registry holds committed entity descriptors. Batches commit through
// Merge, which is the only write path, so readers never observe a partly
// registered batch.
type Registry struct {
	entities map[Ident]*Entity
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[Ident]*Entity),
	}
}

// Merge commits a validated batch. Entities already registered under the
// same identifier are replaced, which is what re-running registration after
// a migration relies on.
func (r *Registry) Merge(batch []*Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entity := range batch {
		r.entities[entity.Ident] = entity
	}
}

// Get retrieves an entity descriptor by identifier
func (r *Registry) Get(ident Ident) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, exists := r.entities[ident]
	return entity, exists
}

// Exists checks whether an identifier is registered
func (r *Registry) Exists(ident Ident) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entities[ident]
	return exists
}

// List returns all registered identifiers in sorted order
func (r *Registry) List() []Ident {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idents := make([]Ident, 0, len(r.entities))
	for ident := range r.entities {
		idents = append(idents, ident)
	}
	sortIdents(idents)
	return idents
}

// Count returns the number of registered entities
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}

// Clear removes all registered entities (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = make(map[Ident]*Entity)
}

// Snapshot returns a point-in-time copy of the registry contents. The
// descriptors themselves are shared, not copied; registration never
// mutates a committed descriptor.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(Snapshot, len(r.entities))
	for ident, entity := range r.entities {
		snap[ident] = entity
	}
	return snap
}

// Stats summarizes registry contents.
type Stats struct {
	Entities   int
	Tables     int
	Views      int
	Composites int
	Enums      int
	Columns    int
	Relations  int
}

// GetStats returns statistics about the registry
func (r *Registry) GetStats() Stats {
	snap := r.Snapshot()

	stats := Stats{Entities: len(snap)}
	for _, entity := range snap {
		switch entity.Kind {
		case KindTable:
			stats.Tables++
		case KindView:
			stats.Views++
		case KindComposite:
			stats.Composites++
		case KindEnum:
			stats.Enums++
		}
		stats.Columns += len(entity.Columns)
		stats.Relations += len(entity.Relations)
	}
	return stats
}

// Snapshot is an immutable view of entity descriptors, either a registry
// copy or one overlaid with an in-flight batch. Derivation and consistency
// checking read through a Snapshot so their results cannot shift while a
// registration call is in progress.
type Snapshot map[Ident]*Entity

// Get retrieves an entity descriptor by identifier
func (s Snapshot) Get(ident Ident) (*Entity, bool) {
	entity, exists := s[ident]
	return entity, exists
}

// Overlay returns a new snapshot with the batch applied on top. Batch
// entities shadow registered ones under the same identifier.
func (s Snapshot) Overlay(batch []*Entity) Snapshot {
	merged := make(Snapshot, len(s)+len(batch))
	for ident, entity := range s {
		merged[ident] = entity
	}
	for _, entity := range batch {
		merged[entity.Ident] = entity
	}
	return merged
}

// EntityByTypeName resolves a raw type name to a composite or enum entity.
// An entity in the requesting scope wins; otherwise the match from the
// lexicographically smallest scope is returned so resolution stays
// deterministic when several scopes register the same type name.
func (s Snapshot) EntityByTypeName(scope, typeName string) (*Entity, bool) {
	if entity, ok := s[NewIdent(scope, typeName)]; ok && entity.typeLike() {
		return entity, true
	}

	var best *Entity
	for _, entity := range s {
		if entity.Ident.Name != typeName || !entity.typeLike() {
			continue
		}
		if best == nil || entity.Ident.Scope < best.Ident.Scope {
			best = entity
		}
	}
	return best, best != nil
}

func (e *Entity) typeLike() bool {
	return e.Kind == KindComposite || e.Kind == KindEnum
}

func sortIdents(idents []Ident) {
	sort.Slice(idents, func(i, j int) bool {
		if idents[i].Scope != idents[j].Scope {
			return idents[i].Scope < idents[j].Scope
		}
		return idents[i].Name < idents[j].Name
	})
}
