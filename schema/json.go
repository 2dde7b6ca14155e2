package schema

import (
	"github.com/goccy/go-json"
)

// MarshalJSON implements json.Marshaler. Validators serialize as their
// expressions; identical registrations produce byte-identical output, so
// the encoding is safe to diff between runs.
func (d *Declarations) MarshalJSON() ([]byte, error) {
	out := struct {
		Entities    []*Entity         `json:"entities"`
		Columns     map[string]string `json:"columns"`
		Projections map[string]string `json:"projections"`
		Inserts     map[string]string `json:"inserts"`
		Enums       map[string]string `json:"enums"`
	}{
		Entities:    d.Entities,
		Columns:     make(map[string]string, len(d.Columns)),
		Projections: make(map[string]string, len(d.Projections)),
		Inserts:     make(map[string]string, len(d.Inserts)),
		Enums:       make(map[string]string, len(d.Enums)),
	}

	for ident, v := range d.Columns {
		out.Columns[ident.String()] = v.String()
	}
	for ident, v := range d.Projections {
		out.Projections[ident.String()] = v.String()
	}
	for ident, v := range d.Inserts {
		out.Inserts[ident.String()] = v.String()
	}
	for ident, v := range d.Enums {
		out.Enums[ident.String()] = v.String()
	}

	return json.Marshal(out)
}

// MarshalJSON implements json.Marshaler for the registry, emitting
// committed entities in sorted identifier order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	snap := r.Snapshot()

	idents := make([]Ident, 0, len(snap))
	for ident := range snap {
		idents = append(idents, ident)
	}
	sortIdents(idents)

	entities := make([]*Entity, len(idents))
	for i, ident := range idents {
		entities[i] = snap[ident]
	}

	return json.Marshal(struct {
		Entities []*Entity `json:"entities"`
	}{Entities: entities})
}
