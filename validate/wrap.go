package validate

import (
	"fmt"
	"reflect"
)

// OptionalValidator accepts nil and defers everything else to the wrapped
// validator. It is the only validator that treats nil as valid.
type OptionalValidator struct {
	Inner Validator
}

// Validate implements the Validator interface
func (v *OptionalValidator) Validate(value interface{}) error {
	if value == nil {
		return nil
	}
	return v.Inner.Validate(value)
}

func (v *OptionalValidator) String() string {
	return fmt.Sprintf("nullable(%s)", v.Inner.String())
}

// TransformValidator projects the value through a named function before
// validating it. A projection failure is a validation failure.
type TransformValidator struct {
	Name    string
	Project func(interface{}) (interface{}, error)
	Inner   Validator
}

// Validate implements the Validator interface
func (v *TransformValidator) Validate(value interface{}) error {
	if value == nil {
		// Nothing to project; let the inner validator report the null.
		return v.Inner.Validate(nil)
	}
	projected, err := v.Project(value)
	if err != nil {
		return fmt.Errorf("transform %s: %v", v.Name, err)
	}
	return v.Inner.Validate(projected)
}

func (v *TransformValidator) String() string {
	return fmt.Sprintf("%s=>%s", v.Name, v.Inner.String())
}

// ArrayValidator validates every element of a slice or array against the
// element validator.
type ArrayValidator struct {
	Elem Validator
}

// Validate implements the Validator interface
func (v *ArrayValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return fmt.Errorf("must be an array")
	}
	for i := 0; i < val.Len(); i++ {
		elem := val.Index(i).Interface()
		if err := v.Elem.Validate(elem); err != nil {
			return fmt.Errorf("element %d %v", i, err)
		}
	}
	return nil
}

func (v *ArrayValidator) String() string {
	return fmt.Sprintf("array<%s>", v.Elem.String())
}
