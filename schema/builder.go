package schema

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/relspec/relspec/introspect"
)

// Builder runs entity registration: introspect, normalize, resolve,
// propagate, check, derive, and commit, in that order. A single Builder
// may serve concurrent Register calls; the registry is only touched in
// the final commit step.
type Builder struct {
	introspector introspect.Introspector
	registry     *Registry
	log          *zap.Logger

	// Commit controls whether a validated batch is merged into the
	// registry. With Commit off, Register still returns the full set of
	// derived declarations, which is how callers dry-run a migration.
	Commit bool
}

// NewBuilder creates a Builder. A nil logger disables logging.
func NewBuilder(introspector introspect.Introspector, registry *Registry, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		introspector: introspector,
		registry:     registry,
		log:          log,
		Commit:       true,
	}
}

// Register introspects and registers a batch of declared entities. On
// success the batch is committed atomically (unless Commit is off) and the
// derived validator declarations are returned. On any error nothing is
// committed: every failure mode, including validator derivation, runs
// before the registry is touched.
func (b *Builder) Register(ctx context.Context, decls []Declaration) (*Declarations, error) {
	batch := make([]*Entity, 0, len(decls))
	seen := make(map[Ident]bool, len(decls))

	for _, decl := range decls {
		raw, err := b.introspector.DescribeEntity(ctx, decl.Scope, decl.Name)
		if err != nil {
			return nil, fmt.Errorf("register %s/%s: %w", decl.Scope, decl.Name, err)
		}
		entity, err := Normalize(raw, decl)
		if err != nil {
			return nil, fmt.Errorf("register %s/%s: %w", decl.Scope, decl.Name, err)
		}
		if seen[entity.Ident] {
			return nil, fmt.Errorf("register %s: declared twice in one batch", entity.Ident)
		}
		seen[entity.Ident] = true
		batch = append(batch, entity)

		b.log.Debug("normalized entity",
			zap.String("entity", entity.Ident.String()),
			zap.String("kind", entity.Kind.String()),
			zap.Int("columns", len(entity.Columns)))
	}

	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Ident.String() < batch[j].Ident.String()
	})

	view := b.registry.Snapshot().Overlay(batch)
	resolveElements(batch, view)

	if err := b.fillEnumValues(ctx, batch, view); err != nil {
		return nil, err
	}

	PropagateEnumTransforms(batch, view)

	if cerr := CheckConsistency(batch, view); cerr != nil {
		b.log.Warn("batch rejected",
			zap.Int("type_conflicts", len(cerr.TypeConflicts)),
			zap.Int("name_collisions", len(cerr.NameCollisions)))
		return nil, cerr
	}

	declarations, err := emitDeclarations(batch, newDeriver(view))
	if err != nil {
		return nil, err
	}

	if b.Commit {
		b.registry.Merge(batch)
	}
	b.log.Info("batch registered",
		zap.Int("entities", len(batch)),
		zap.Int("validators", len(declarations.Columns)),
		zap.Bool("committed", b.Commit))

	return declarations, nil
}

// fillEnumValues runs the secondary enum lookups: value sets for enum
// entities in the batch, and for enum-typed columns whose type is not
// registered as an entity. Each distinct type is looked up at most once
// per call.
func (b *Builder) fillEnumValues(ctx context.Context, batch []*Entity, view Snapshot) error {
	cache := make(map[Ident][]string)

	lookup := func(scope, typeName string) ([]string, error) {
		key := NewIdent(scope, typeName)
		if values, ok := cache[key]; ok {
			return values, nil
		}
		values, err := b.introspector.EnumValues(ctx, scope, typeName)
		if err != nil {
			return nil, fmt.Errorf("enum values for %s: %w", key, err)
		}
		cache[key] = values
		return values, nil
	}

	for _, entity := range batch {
		if entity.Kind != KindEnum {
			continue
		}
		values, err := lookup(entity.Ident.Scope, entity.Ident.Name)
		if err != nil {
			return err
		}
		entity.EnumValues = values
	}

	for _, entity := range batch {
		for _, col := range entity.Columns {
			for _, ref := range []*Column{col, col.Element} {
				if ref == nil || !ref.IsEnum || len(ref.EnumValues) > 0 {
					continue
				}
				if _, ok := view.EntityByTypeName(entity.Ident.Scope, ref.TypeName); ok {
					// Derivation reads the entity's value set directly.
					continue
				}
				values, err := lookup(entity.Ident.Scope, ref.TypeName)
				if err != nil {
					return err
				}
				ref.EnumValues = values
			}
		}
	}
	return nil
}
