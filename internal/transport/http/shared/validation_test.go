package shared

import (
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "is required")
	v.Enum("method", "telepathy", []string{"manual", "qr", "facial"}, "must be manual, qr or facial")
	v.Required("email", "set", "is required")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].Field != "method" || issues[1].Field != "name" {
		t.Fatalf("expected sorted fields, got %+v", issues)
	}
}

func TestValidatorTime(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Time("entryTime", "2025-03-12T08:00:00Z"); !ok {
		t.Fatal("expected RFC3339 timestamp to parse")
	}
	if v.HasIssues() {
		t.Fatalf("no issues expected, got %+v", v.Issues())
	}

	if _, ok := v.Time("entryTime", "yesterday"); ok {
		t.Fatal("expected parse failure")
	}
	if !v.HasIssues() {
		t.Fatal("expected issue for bad timestamp")
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("startDate", "2025-03-12"); !ok {
		t.Fatal("expected plain date to parse")
	}
	if _, ok := v.Date("startDate", "12/03/2025"); ok {
		t.Fatal("expected parse failure for non-ISO date")
	}
}
