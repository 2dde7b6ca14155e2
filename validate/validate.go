// Package validate implements the value validators assembled during entity
// registration. Validators check already-decoded Go values (the kind a JSON
// body or a database scan produces) against the type that was introspected
// for a column, without touching the database.
//
// nil is the absent marker everywhere in this package: every base validator
// rejects it, and only OptionalValidator lets it through. Callers that want
// "nullable" semantics wrap the base validator, they never get them for free.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Validator checks a single decoded value. String returns the validator's
// expression, which is stable for identical inputs so callers can log,
// diff, and deduplicate derived validators.
type Validator interface {
	Validate(value interface{}) error
	String() string
}

// StringValidator accepts string values.
type StringValidator struct{}

// Validate implements the Validator interface
func (v StringValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	if _, ok := value.(string); !ok {
		return fmt.Errorf("must be a string")
	}
	return nil
}

func (v StringValidator) String() string { return "string" }

// RuneLimitValidator enforces a maximum string length counted in runes,
// matching how character types measure length server-side.
type RuneLimitValidator struct {
	Max int
}

// Validate implements the Validator interface
func (v RuneLimitValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if utf8.RuneCountInString(strVal) > v.Max {
		return fmt.Errorf("must be at most %d characters", v.Max)
	}
	return nil
}

func (v RuneLimitValidator) String() string { return fmt.Sprintf("len<=%d", v.Max) }

// IntegerValidator accepts integer values. Floating point inputs pass only
// when they carry no fractional part, since JSON decodes every number to
// float64.
type IntegerValidator struct{}

// Validate implements the Validator interface
func (v IntegerValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	if _, ok := toInt64(value); !ok {
		return fmt.Errorf("must be an integer")
	}
	return nil
}

func (v IntegerValidator) String() string { return "integer" }

// FloatValidator accepts any numeric value.
type FloatValidator struct{}

// Validate implements the Validator interface
func (v FloatValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	if _, ok := toFloat64(value); !ok {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func (v FloatValidator) String() string { return "float" }

// NumericValidator accepts numeric values and decimal strings, the two
// shapes arbitrary-precision columns show up as in practice.
type NumericValidator struct{}

// Validate implements the Validator interface
func (v NumericValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	if s, ok := value.(string); ok {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("must be a decimal number")
		}
		return nil
	}
	if _, ok := toFloat64(value); !ok {
		return fmt.Errorf("must be a decimal number")
	}
	return nil
}

func (v NumericValidator) String() string { return "numeric" }

// BoolValidator accepts boolean values.
type BoolValidator struct{}

// Validate implements the Validator interface
func (v BoolValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("must be a boolean")
	}
	return nil
}

func (v BoolValidator) String() string { return "boolean" }

// UUIDValidator accepts uuid.UUID values and strings in canonical form.
type UUIDValidator struct{}

// Validate implements the Validator interface
func (v UUIDValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	switch val := value.(type) {
	case uuid.UUID:
		return nil
	case [16]byte:
		return nil
	case string:
		if _, err := uuid.Parse(val); err != nil {
			return fmt.Errorf("must be a valid UUID")
		}
		return nil
	default:
		return fmt.Errorf("must be a UUID")
	}
}

func (v UUIDValidator) String() string { return "uuid" }

// TimestampValidator accepts time.Time values and RFC 3339 strings.
type TimestampValidator struct{}

// Validate implements the Validator interface
func (v TimestampValidator) Validate(value interface{}) error {
	return validateTime(value, time.RFC3339, "must be a valid timestamp")
}

func (v TimestampValidator) String() string { return "timestamp" }

// DateValidator accepts time.Time values and YYYY-MM-DD strings.
type DateValidator struct{}

// Validate implements the Validator interface
func (v DateValidator) Validate(value interface{}) error {
	return validateTime(value, "2006-01-02", "must be a valid date")
}

func (v DateValidator) String() string { return "date" }

// TimeValidator accepts time.Time values and HH:MM:SS strings.
type TimeValidator struct{}

// Validate implements the Validator interface
func (v TimeValidator) Validate(value interface{}) error {
	return validateTime(value, "15:04:05", "must be a valid time of day")
}

func (v TimeValidator) String() string { return "time" }

// JSONValidator accepts raw JSON text and already-decoded JSON structures.
type JSONValidator struct{}

// Validate implements the Validator interface
func (v JSONValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	switch val := value.(type) {
	case string:
		if !json.Valid([]byte(val)) {
			return fmt.Errorf("must be valid JSON")
		}
		return nil
	case []byte:
		if !json.Valid(val) {
			return fmt.Errorf("must be valid JSON")
		}
		return nil
	case map[string]interface{}, []interface{}, bool, float64, int, int64:
		return nil
	default:
		return fmt.Errorf("must be valid JSON")
	}
}

func (v JSONValidator) String() string { return "json" }

// BytesValidator accepts byte slices and strings destined for binary columns.
type BytesValidator struct{}

// Validate implements the Validator interface
func (v BytesValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	switch value.(type) {
	case []byte, string:
		return nil
	default:
		return fmt.Errorf("must be a byte string")
	}
}

func (v BytesValidator) String() string { return "bytea" }

// EnumValidator accepts strings drawn from a fixed value set. Values keep
// the order the database reported them in, so the expression is stable.
type EnumValidator struct {
	Values []string
}

// Validate implements the Validator interface
func (v *EnumValidator) Validate(value interface{}) error {
	if value == nil {
		return errNull
	}
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	for _, allowed := range v.Values {
		if strVal == allowed {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(v.Values, ", "))
}

func (v *EnumValidator) String() string {
	return fmt.Sprintf("enum(%s)", strings.Join(v.Values, "|"))
}

// AllValidator runs validators in order and stops at the first failure.
type AllValidator struct {
	Validators []Validator
}

// Validate implements the Validator interface
func (v *AllValidator) Validate(value interface{}) error {
	for _, inner := range v.Validators {
		if err := inner.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

func (v *AllValidator) String() string {
	parts := make([]string, len(v.Validators))
	for i, inner := range v.Validators {
		parts[i] = inner.String()
	}
	return strings.Join(parts, "&")
}

var errNull = fmt.Errorf("cannot be null")

func validateTime(value interface{}, layout, msg string) error {
	if value == nil {
		return errNull
	}
	switch val := value.(type) {
	case time.Time:
		return nil
	case string:
		if _, err := time.Parse(layout, val); err != nil {
			return fmt.Errorf("%s", msg)
		}
		return nil
	default:
		return fmt.Errorf("%s", msg)
	}
}

// Helper functions for type conversion

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
