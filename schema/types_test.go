package schema

import "testing"

func TestIdent(t *testing.T) {
	t.Run("string form is scope qualified", func(t *testing.T) {
		ident := NewIdent("app", "users")
		if ident.String() != "app/users" {
			t.Errorf("expected app/users, got %s", ident.String())
		}
	})

	t.Run("round trips through text", func(t *testing.T) {
		text, err := NewIdent("app", "users-insert").MarshalText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed Ident
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsed != NewIdent("app", "users-insert") {
			t.Errorf("expected app/users-insert, got %s", parsed)
		}
	})

	t.Run("rejects malformed text", func(t *testing.T) {
		var ident Ident
		for _, bad := range []string{"", "noslash", "/name", "scope/"} {
			if err := ident.UnmarshalText([]byte(bad)); err == nil {
				t.Errorf("expected error for %q", bad)
			}
		}
	})
}

func TestEntityKind(t *testing.T) {
	kinds := []EntityKind{KindTable, KindView, KindComposite, KindEnum}
	for _, kind := range kinds {
		parsed, err := ParseEntityKind(kind.String())
		if err != nil {
			t.Errorf("ParseEntityKind(%q) error: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("expected %v, got %v", kind, parsed)
		}
	}

	if _, err := ParseEntityKind("sequence"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRelationKind(t *testing.T) {
	kinds := []RelationKind{RelationBelongsTo, RelationHasMany, RelationHasOne}
	for _, kind := range kinds {
		parsed, err := ParseRelationKind(kind.String())
		if err != nil {
			t.Errorf("ParseRelationKind(%q) error: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("expected %v, got %v", kind, parsed)
		}
	}
}

func TestColumnBounds(t *testing.T) {
	bounded := &Column{TypeName: "varchar", TypeDatum: 24}
	if !bounded.Bounded() {
		t.Error("column with datum should be bounded")
	}
	if bounded.MaxRunes() != 20 {
		t.Errorf("expected usable maximum 20, got %d", bounded.MaxRunes())
	}

	unbounded := &Column{TypeName: "text"}
	if unbounded.Bounded() {
		t.Error("column without datum should not be bounded")
	}
}

func TestEntityHelpers(t *testing.T) {
	entity := NewEntity(NewIdent("app", "users"), KindTable)
	entity.Columns[NewIdent("app", "email")] = &Column{
		Ident: NewIdent("app", "email"), TypeName: "text", NotNull: true, Position: 2,
	}
	entity.Columns[NewIdent("app", "id")] = &Column{
		Ident: NewIdent("app", "id"), TypeName: "int8", NotNull: true, Position: 1,
	}
	entity.Columns[NewIdent("app", "bio")] = &Column{
		Ident: NewIdent("app", "bio"), TypeName: "text", Position: 3,
	}

	t.Run("lookup by local name", func(t *testing.T) {
		col, ok := entity.Column("email")
		if !ok || col.TypeName != "text" {
			t.Errorf("expected email column, got %v", col)
		}
		if _, ok := entity.Column("ghost"); ok {
			t.Error("ghost column should not exist")
		}
	})

	t.Run("ordered columns follow positions", func(t *testing.T) {
		cols := entity.OrderedColumns()
		if len(cols) != 3 {
			t.Fatalf("expected 3 columns, got %d", len(cols))
		}
		for i, want := range []string{"id", "email", "bio"} {
			if cols[i].Ident.Name != want {
				t.Errorf("position %d: expected %s, got %s", i, want, cols[i].Ident.Name)
			}
		}
	})

	t.Run("required columns are the not-null ones", func(t *testing.T) {
		required := entity.RequiredColumns()
		if len(required) != 2 || required[0] != "id" || required[1] != "email" {
			t.Errorf("expected [id email], got %v", required)
		}
	})
}
