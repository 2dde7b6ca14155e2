package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Errors collects validation failures keyed by column name.
type Errors struct {
	Fields map[string][]string `json:"fields"`
}

// NewErrors creates an empty Errors instance
func NewErrors() *Errors {
	return &Errors{
		Fields: make(map[string][]string),
	}
}

// Add records a validation failure for a column
func (e *Errors) Add(column, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[column] = append(e.Fields[column], message)
}

// HasErrors returns true if any failure has been recorded
func (e *Errors) HasErrors() bool {
	return len(e.Fields) > 0
}

// Count returns the total number of failures across all columns
func (e *Errors) Count() int {
	count := 0
	for _, messages := range e.Fields {
		count += len(messages)
	}
	return count
}

// Error implements the error interface. Columns are listed in sorted order
// so the message is stable for identical failures.
func (e *Errors) Error() string {
	if !e.HasErrors() {
		return "validation failed"
	}

	columns := make([]string, 0, len(e.Fields))
	for column := range e.Fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	var messages []string
	for _, column := range columns {
		for _, msg := range e.Fields[column] {
			messages = append(messages, fmt.Sprintf("  - %s: %s", column, msg))
		}
	}

	if len(messages) == 1 {
		return fmt.Sprintf("validation failed: %s", strings.TrimPrefix(messages[0], "  - "))
	}

	return fmt.Sprintf("validation failed:\n%s", strings.Join(messages, "\n"))
}

// MarshalJSON implements json.Marshaler for custom JSON serialization
func (e *Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}{
		Error:  "validation_failed",
		Fields: e.Fields,
	})
}
