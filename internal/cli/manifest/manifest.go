// Package manifest reads the YAML entity manifest that names the entities a
// registration should cover, so the CLI can drive one without code. The
// manifest carries only what introspection cannot see: which entities to
// register and their declared relations.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relspec/relspec/schema"
)

// Manifest is the decoded entity manifest.
type Manifest struct {
	// Scope is the default scope for entities that do not set their own.
	Scope string `yaml:"scope"`

	// Entities lists the entities to register, in declaration order.
	Entities []Entity `yaml:"entities"`
}

// Entity is one declared entity.
type Entity struct {
	Name      string              `yaml:"name"`
	Scope     string              `yaml:"scope,omitempty"`
	Relations map[string]Relation `yaml:"relations,omitempty"`
}

// Relation is declared join metadata, keyed by relation name on the entity.
type Relation struct {
	Kind          string `yaml:"kind"`
	Target        string `yaml:"target"`
	LocalColumn   string `yaml:"local_column"`
	ForeignColumn string `yaml:"foreign_column"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Declarations converts the manifest into registration declarations.
// Relation targets without a scope qualifier resolve against the owning
// entity's scope.
func (m *Manifest) Declarations() ([]schema.Declaration, error) {
	decls := make([]schema.Declaration, 0, len(m.Entities))
	for _, e := range m.Entities {
		scope := m.entityScope(e)
		decl := schema.Declaration{Scope: scope, Name: e.Name}

		for name, rel := range e.Relations {
			kind, err := schema.ParseRelationKind(rel.Kind)
			if err != nil {
				return nil, fmt.Errorf("entity %s/%s, relation %s: %w", scope, e.Name, name, err)
			}

			target := rel.Target
			if !strings.Contains(target, "/") {
				target = scope + "/" + target
			}
			var ident schema.Ident
			if err := ident.UnmarshalText([]byte(target)); err != nil {
				return nil, fmt.Errorf("entity %s/%s, relation %s: %w", scope, e.Name, name, err)
			}

			if decl.Relations == nil {
				decl.Relations = make(map[string]schema.Relation)
			}
			decl.Relations[name] = schema.Relation{
				Kind:          kind,
				Target:        ident,
				LocalColumn:   rel.LocalColumn,
				ForeignColumn: rel.ForeignColumn,
			}
		}

		decls = append(decls, decl)
	}
	return decls, nil
}

func (m *Manifest) validate() error {
	if len(m.Entities) == 0 {
		return fmt.Errorf("no entities declared")
	}

	seen := make(map[string]bool)
	for i, e := range m.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity %d: name is required", i+1)
		}
		scope := m.entityScope(e)
		if scope == "" {
			return fmt.Errorf("entity %s: no scope set and the manifest has no default", e.Name)
		}

		key := scope + "/" + e.Name
		if seen[key] {
			return fmt.Errorf("entity %s declared twice", key)
		}
		seen[key] = true

		for name, rel := range e.Relations {
			if _, err := schema.ParseRelationKind(rel.Kind); err != nil {
				return fmt.Errorf("entity %s, relation %s: %w", key, name, err)
			}
			if rel.Target == "" {
				return fmt.Errorf("entity %s, relation %s: target is required", key, name)
			}
		}
	}
	return nil
}

func (m *Manifest) entityScope(e Entity) string {
	if e.Scope != "" {
		return e.Scope
	}
	return m.Scope
}
