package validate

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestErrors_AddAndCount(t *testing.T) {
	errs := NewErrors()
	if errs.HasErrors() {
		t.Error("new Errors should have no errors")
	}

	errs.Add("email", "is required")
	errs.Add("email", "must be a string")
	errs.Add("id", "must be an integer")

	if !errs.HasErrors() {
		t.Error("HasErrors() = false after Add")
	}
	if errs.Count() != 3 {
		t.Errorf("Count() = %d, want 3", errs.Count())
	}
}

func TestErrors_ErrorMessage(t *testing.T) {
	single := NewErrors()
	single.Add("email", "is required")
	if got := single.Error(); got != "validation failed: email: is required" {
		t.Errorf("Error() = %q", got)
	}

	multi := NewErrors()
	multi.Add("zzz", "must be a string")
	multi.Add("aaa", "is required")
	got := multi.Error()
	if !strings.Contains(got, "aaa: is required") || !strings.Contains(got, "zzz: must be a string") {
		t.Errorf("Error() = %q, want both failures listed", got)
	}
	if strings.Index(got, "aaa") > strings.Index(got, "zzz") {
		t.Errorf("Error() = %q, want columns sorted", got)
	}
}

func TestErrors_MarshalJSON(t *testing.T) {
	errs := NewErrors()
	errs.Add("email", "is required")

	data, err := json.Marshal(errs)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Error != "validation_failed" {
		t.Errorf("error = %q, want validation_failed", decoded.Error)
	}
	if len(decoded.Fields["email"]) != 1 {
		t.Errorf("fields = %v, want email failure", decoded.Fields)
	}
}
