package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// SQLite introspects entities from a SQLite database. SQLite has no enum,
// composite, or array types and no type categories, so every column comes
// back as a scalar; columns whose declared type this package cannot map
// simply end up without a derivable validator downstream.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a SQLite introspector over an open connection pool.
// The scope argument on each call is carried into identifiers but does not
// select a database; SQLite files hold a single namespace.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// DescribeEntity implements the Introspector interface
func (s *SQLite) DescribeEntity(ctx context.Context, scope, name string) (*RawEntity, error) {
	var kind string
	err := s.db.QueryRowContext(ctx,
		`SELECT type FROM sqlite_master WHERE name = ? AND type IN ('table', 'view')`,
		name).Scan(&kind)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("describe %s.%s: %w", scope, name, ErrEntityNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("describe %s.%s: %w", scope, name, err)
	}

	entity := &RawEntity{Scope: scope, Name: name}
	switch kind {
	case "table":
		entity.Kind = KindTable
	case "view":
		entity.Kind = KindView
	}

	// PRAGMA arguments cannot be bound, so the name is quoted inline.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("describe %s.%s columns: %w", scope, name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid      int
			colName  string
			declType sql.NullString
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &colName, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("describe %s.%s columns: %w", scope, name, err)
		}
		typeName, datum := parseDeclType(declType.String)
		entity.Columns = append(entity.Columns, RawColumn{
			Name:      colName,
			TypeName:  typeName,
			NotNull:   notNull == 1 || pk > 0,
			Category:  sqliteCategory(typeName),
			TypeDatum: datum,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %s.%s columns: %w", scope, name, err)
	}
	return entity, nil
}

// EnumValues implements the Introspector interface
func (s *SQLite) EnumValues(ctx context.Context, scope, typeName string) ([]string, error) {
	// No enum types in SQLite.
	return nil, nil
}

// ListEntities implements the Introspector interface
func (s *SQLite) ListEntities(ctx context.Context, scope string) ([]EntityRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type FROM sqlite_master
		 WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", scope, err)
	}
	defer rows.Close()

	var refs []EntityRef
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("list %s: %w", scope, err)
		}
		ref := EntityRef{Name: name, Kind: KindTable}
		if kind == "view" {
			ref.Kind = KindView
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", scope, err)
	}
	return refs, nil
}

// parseDeclType splits a SQLite declared type like "VARCHAR(20)" into a
// lowercase base name and, for bounded character types, a type datum in
// the same header-inclusive convention other backends use.
func parseDeclType(decl string) (string, int) {
	decl = strings.TrimSpace(strings.ToLower(decl))
	if decl == "" {
		return "", 0
	}

	base := decl
	var arg string
	if open := strings.IndexByte(decl, '('); open >= 0 {
		base = strings.TrimSpace(decl[:open])
		if close := strings.IndexByte(decl, ')'); close > open {
			arg = decl[open+1 : close]
		}
	}

	switch base {
	case "character varying", "varying character":
		base = "varchar"
	case "character", "native character", "nchar":
		base = "char"
	case "nvarchar":
		base = "varchar"
	case "int":
		base = "integer"
	case "double", "double precision":
		base = "float8"
	}

	datum := 0
	if base == "varchar" || base == "char" {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(arg, ",", 2)[0])); err == nil && n > 0 {
			datum = n + 4
		}
	}
	return base, datum
}

func sqliteCategory(typeName string) Category {
	switch typeName {
	case "integer", "real", "float8", "numeric", "decimal":
		return CategoryNumeric
	case "text", "varchar", "char", "clob":
		return CategoryString
	case "boolean", "bool":
		return CategoryBoolean
	case "date", "datetime", "timestamp":
		return CategoryDateTime
	case "blob", "":
		return CategoryUser
	default:
		return CategoryUnknown
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
