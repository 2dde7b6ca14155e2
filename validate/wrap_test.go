package validate

import (
	"fmt"
	"strings"
	"testing"
)

func TestOptionalValidator(t *testing.T) {
	validator := &OptionalValidator{Inner: StringValidator{}}

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{name: "nil accepted", value: nil, wantErr: false},
		{name: "valid inner value", value: "hello", wantErr: false},
		{name: "invalid inner value", value: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("OptionalValidator.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransformValidator(t *testing.T) {
	lower := &TransformValidator{
		Name: "lower",
		Project: func(v interface{}) (interface{}, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("expected string")
			}
			return strings.ToLower(s), nil
		},
		Inner: &EnumValidator{Values: []string{"active", "done"}},
	}

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{name: "projected value passes", value: "ACTIVE", wantErr: false},
		{name: "projected value fails inner", value: "CANCELLED", wantErr: true},
		{name: "projection failure is validation failure", value: 42, wantErr: true},
		{name: "nil skips projection and fails inner", value: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lower.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("TransformValidator.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransformValidator_NullableWrapAcceptsNil(t *testing.T) {
	// Wrap order for a nullable transformed column: transform inside,
	// nullable outside. nil short-circuits before any projection runs.
	inner := &TransformValidator{
		Name: "lower",
		Project: func(v interface{}) (interface{}, error) {
			t.Fatal("projection should not run for nil")
			return nil, nil
		},
		Inner: StringValidator{},
	}
	validator := &OptionalValidator{Inner: inner}

	if err := validator.Validate(nil); err != nil {
		t.Errorf("Validate(nil) error = %v, want nil", err)
	}
}

func TestArrayValidator(t *testing.T) {
	validator := &ArrayValidator{Elem: &OptionalValidator{Inner: StringValidator{}}}

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{name: "all elements valid", value: []interface{}{"a", "b"}, wantErr: false},
		{name: "nil element allowed by optional", value: []interface{}{"a", nil}, wantErr: false},
		{name: "bad element", value: []interface{}{"a", 42}, wantErr: true},
		{name: "typed slice", value: []string{"a", "b"}, wantErr: false},
		{name: "empty slice", value: []interface{}{}, wantErr: false},
		{name: "not a slice", value: "a", wantErr: true},
		{name: "nil array", value: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ArrayValidator.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArrayValidator_ErrorNamesElement(t *testing.T) {
	validator := &ArrayValidator{Elem: IntegerValidator{}}

	err := validator.Validate([]interface{}{1, "two", 3})
	if err == nil {
		t.Fatal("expected error for non-integer element")
	}
	if !strings.Contains(err.Error(), "element 1") {
		t.Errorf("error = %q, want element index in message", err.Error())
	}
}
