package validate

import "fmt"

// RecordValidator validates a map of column name to value against a set of
// per-column validators. Column membership and required presence are checked
// here; value checks come from the Fields validators. A column listed in
// Columns but missing from Fields is accepted by presence alone, which is
// how columns without a derivable validator stay usable.
type RecordValidator struct {
	// Name labels the record in expressions and error output, usually the
	// owning entity identifier.
	Name string

	// Columns is every column the record may mention, in declaration order.
	Columns []string

	// Required lists the columns that must be present.
	Required []string

	// Fields maps column names to their value validators.
	Fields map[string]Validator
}

// Validate implements the Validator interface
func (v *RecordValidator) Validate(value interface{}) error {
	record, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("must be a record")
	}

	errs := NewErrors()

	for _, name := range v.Required {
		if _, present := record[name]; !present {
			errs.Add(name, "is required")
		}
	}

	for name, val := range record {
		if !v.hasColumn(name) {
			errs.Add(name, "is not a declared column")
			continue
		}
		field, ok := v.Fields[name]
		if !ok {
			continue
		}
		if err := field.Validate(val); err != nil {
			errs.Add(name, err.Error())
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (v *RecordValidator) String() string {
	return fmt.Sprintf("record(%s)", v.Name)
}

func (v *RecordValidator) hasColumn(name string) bool {
	for _, col := range v.Columns {
		if col == name {
			return true
		}
	}
	return false
}
