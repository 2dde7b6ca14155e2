package introspect

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite_DescribeEntity(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			email VARCHAR(80) NOT NULL,
			bio TEXT,
			balance NUMERIC
		)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	entity, err := NewSQLite(db).DescribeEntity(context.Background(), "main", "users")
	if err != nil {
		t.Fatalf("DescribeEntity() error = %v", err)
	}

	if entity.Kind != KindTable {
		t.Errorf("Kind = %v, want %v", entity.Kind, KindTable)
	}
	if len(entity.Columns) != 4 {
		t.Fatalf("len(Columns) = %d, want 4", len(entity.Columns))
	}

	id := entity.Columns[0]
	if id.TypeName != "integer" || !id.NotNull {
		t.Errorf("id = %+v, want not-null integer", id)
	}

	email := entity.Columns[1]
	if email.TypeName != "varchar" {
		t.Errorf("email.TypeName = %q, want varchar", email.TypeName)
	}
	if email.TypeDatum != 84 {
		t.Errorf("email.TypeDatum = %d, want 84 (declared 80 plus header)", email.TypeDatum)
	}
	if !email.NotNull {
		t.Error("email.NotNull = false, want true")
	}

	bio := entity.Columns[2]
	if bio.TypeName != "text" || bio.NotNull || bio.TypeDatum != 0 {
		t.Errorf("bio = %+v, want nullable unbounded text", bio)
	}
}

func TestSQLite_DescribeView(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec(`CREATE TABLE t (n INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`CREATE VIEW doubled AS SELECT n * 2 AS n2 FROM t`); err != nil {
		t.Fatalf("create view: %v", err)
	}

	entity, err := NewSQLite(db).DescribeEntity(context.Background(), "main", "doubled")
	if err != nil {
		t.Fatalf("DescribeEntity() error = %v", err)
	}
	if entity.Kind != KindView {
		t.Errorf("Kind = %v, want %v", entity.Kind, KindView)
	}
}

func TestSQLite_DescribeMissingEntity(t *testing.T) {
	db := openTestDB(t)

	_, err := NewSQLite(db).DescribeEntity(context.Background(), "main", "ghost")
	if err == nil {
		t.Fatal("expected error for missing entity")
	}
	if !IsEntityNotFound(err) {
		t.Errorf("IsEntityNotFound() = false for %v", err)
	}
}

func TestSQLite_ListEntities(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec(`CREATE TABLE b (n INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE a (n INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`CREATE VIEW v AS SELECT n FROM a`); err != nil {
		t.Fatalf("create view: %v", err)
	}

	refs, err := NewSQLite(db).ListEntities(context.Background(), "main")
	if err != nil {
		t.Fatalf("ListEntities() error = %v", err)
	}

	want := []EntityRef{
		{Name: "a", Kind: KindTable},
		{Name: "b", Kind: KindTable},
		{Name: "v", Kind: KindView},
	}
	if len(refs) != len(want) {
		t.Fatalf("len(refs) = %d, want %d", len(refs), len(want))
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d] = %+v, want %+v", i, refs[i], want[i])
		}
	}
}

func TestParseDeclType(t *testing.T) {
	tests := []struct {
		decl      string
		wantName  string
		wantDatum int
	}{
		{decl: "VARCHAR(20)", wantName: "varchar", wantDatum: 24},
		{decl: "character varying (255)", wantName: "varchar", wantDatum: 259},
		{decl: "CHARACTER VARYING(100)", wantName: "varchar", wantDatum: 104},
		{decl: "NCHAR(10)", wantName: "char", wantDatum: 14},
		{decl: "TEXT", wantName: "text", wantDatum: 0},
		{decl: "INT", wantName: "integer", wantDatum: 0},
		{decl: "NUMERIC(10,2)", wantName: "numeric", wantDatum: 0},
		{decl: "DOUBLE PRECISION", wantName: "float8", wantDatum: 0},
		{decl: "", wantName: "", wantDatum: 0},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			name, datum := parseDeclType(tt.decl)
			if name != tt.wantName || datum != tt.wantDatum {
				t.Errorf("parseDeclType(%q) = (%q, %d), want (%q, %d)",
					tt.decl, name, datum, tt.wantName, tt.wantDatum)
			}
		})
	}
}
