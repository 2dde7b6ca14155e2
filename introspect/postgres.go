package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/lib/pq"
)

// Postgres introspects entities through the system catalogs. It works with
// any database/sql driver that speaks the Postgres wire protocol.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres introspector over an open connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const pgKindQuery = `
SELECT c.relkind::text
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relname = $2`

const pgEnumTypeQuery = `
SELECT t.oid
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = $1 AND t.typname = $2 AND t.typtype = 'e'`

const pgColumnQuery = `
SELECT a.attname,
       t.typname,
       a.attnotnull,
       t.typtype = 'e',
       t.typcategory::text,
       a.atttypmod,
       COALESCE(et.typname, ''),
       COALESCE(et.typtype = 'e', false),
       COALESCE(et.typcategory::text, 'X')
FROM pg_catalog.pg_attribute a
JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_type t ON t.oid = a.atttypid
LEFT JOIN pg_catalog.pg_type et ON et.oid = t.typelem AND t.typcategory = 'A'
WHERE n.nspname = $1 AND c.relname = $2 AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`

const pgEnumValueQuery = `
SELECT e.enumlabel
FROM pg_catalog.pg_enum e
JOIN pg_catalog.pg_type t ON t.oid = e.enumtypid
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = $1 AND t.typname = $2
ORDER BY e.enumsortorder`

const pgListRelationQuery = `
SELECT c.relname, c.relkind::text
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relkind = ANY($2)
ORDER BY c.relname`

const pgListEnumQuery = `
SELECT t.typname
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = $1 AND t.typtype = 'e'
ORDER BY t.typname`

// DescribeEntity implements the Introspector interface
func (p *Postgres) DescribeEntity(ctx context.Context, scope, name string) (*RawEntity, error) {
	entity := &RawEntity{Scope: scope, Name: name}

	var relkind string
	err := p.db.QueryRowContext(ctx, pgKindQuery, scope, name).Scan(&relkind)
	switch {
	case err == sql.ErrNoRows:
		// Not a relation; it may still be an enum type.
		var oid uint32
		if err := p.db.QueryRowContext(ctx, pgEnumTypeQuery, scope, name).Scan(&oid); err != nil {
			if err == sql.ErrNoRows {
				return nil, fmt.Errorf("describe %s.%s: %w", scope, name, ErrEntityNotFound)
			}
			return nil, fmt.Errorf("describe %s.%s: %w", scope, name, ConvertError(err))
		}
		entity.Kind = KindEnum
		return entity, nil
	case err != nil:
		return nil, fmt.Errorf("describe %s.%s: %w", scope, name, ConvertError(err))
	}

	switch relkind {
	case "r", "p":
		entity.Kind = KindTable
	case "v", "m":
		entity.Kind = KindView
	case "c":
		entity.Kind = KindComposite
	default:
		return nil, fmt.Errorf("describe %s.%s: relkind %q is not registrable", scope, name, relkind)
	}

	columns, err := p.describeColumns(ctx, scope, name)
	if err != nil {
		return nil, err
	}
	entity.Columns = columns
	return entity, nil
}

func (p *Postgres) describeColumns(ctx context.Context, scope, name string) ([]RawColumn, error) {
	rows, err := p.db.QueryContext(ctx, pgColumnQuery, scope, name)
	if err != nil {
		return nil, fmt.Errorf("describe %s.%s columns: %w", scope, name, ConvertError(err))
	}
	defer rows.Close()

	var columns []RawColumn
	for rows.Next() {
		var (
			col          RawColumn
			category     string
			typmod       int32
			elemName     string
			elemIsEnum   bool
			elemCategory string
		)
		if err := rows.Scan(&col.Name, &col.TypeName, &col.NotNull, &col.IsEnum,
			&category, &typmod, &elemName, &elemIsEnum, &elemCategory); err != nil {
			return nil, fmt.Errorf("describe %s.%s columns: %w", scope, name, err)
		}
		col.Category = categoryFromCode(category)
		if typmod > 0 {
			col.TypeDatum = int(typmod)
		}
		if col.Category == CategoryArray && elemName != "" {
			col.Element = &RawColumn{
				TypeName: elemName,
				IsEnum:   elemIsEnum,
				Category: categoryFromCode(elemCategory),
				// The array column's type modifier constrains elements.
				TypeDatum: col.TypeDatum,
			}
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %s.%s columns: %w", scope, name, ConvertError(err))
	}
	return columns, nil
}

// EnumValues implements the Introspector interface
func (p *Postgres) EnumValues(ctx context.Context, scope, typeName string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, pgEnumValueQuery, scope, typeName)
	if err != nil {
		return nil, fmt.Errorf("enum values %s.%s: %w", scope, typeName, ConvertError(err))
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("enum values %s.%s: %w", scope, typeName, err)
		}
		values = append(values, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("enum values %s.%s: %w", scope, typeName, ConvertError(err))
	}
	return values, nil
}

// ListEntities implements the Introspector interface
func (p *Postgres) ListEntities(ctx context.Context, scope string) ([]EntityRef, error) {
	kinds := pq.Array([]string{"r", "p", "v", "m", "c"})
	rows, err := p.db.QueryContext(ctx, pgListRelationQuery, scope, kinds)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", scope, ConvertError(err))
	}
	defer rows.Close()

	var refs []EntityRef
	for rows.Next() {
		var name, relkind string
		if err := rows.Scan(&name, &relkind); err != nil {
			return nil, fmt.Errorf("list %s: %w", scope, err)
		}
		ref := EntityRef{Name: name}
		switch relkind {
		case "r", "p":
			ref.Kind = KindTable
		case "v", "m":
			ref.Kind = KindView
		case "c":
			ref.Kind = KindComposite
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", scope, ConvertError(err))
	}

	enumRows, err := p.db.QueryContext(ctx, pgListEnumQuery, scope)
	if err != nil {
		return nil, fmt.Errorf("list %s enums: %w", scope, ConvertError(err))
	}
	defer enumRows.Close()

	for enumRows.Next() {
		var name string
		if err := enumRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list %s enums: %w", scope, err)
		}
		refs = append(refs, EntityRef{Name: name, Kind: KindEnum})
	}
	if err := enumRows.Err(); err != nil {
		return nil, fmt.Errorf("list %s enums: %w", scope, ConvertError(err))
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func categoryFromCode(code string) Category {
	if code == "" {
		return CategoryUnknown
	}
	return Category(code[0])
}
