package params

import (
	"strings"
	"testing"

	"erpnext-mcp/pkg/erpnext"
)

func TestObject(t *testing.T) {
	out, err := Object("data", `{"customer_name": "Test Co"}`)
	if err != nil {
		t.Fatalf("Object failed: %v", err)
	}
	if out["customer_name"] != "Test Co" {
		t.Fatalf("unexpected decode result: %v", out)
	}
}

func TestObjectEmptyIsNil(t *testing.T) {
	out, err := Object("data", "")
	if err != nil {
		t.Fatalf("empty string should decode to nil: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %v", out)
	}
}

func TestObjectMalformedNamesParameter(t *testing.T) {
	_, err := Object("data", `{"oops`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !erpnext.IsKind(err, erpnext.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if !strings.Contains(err.Error(), `"data"`) {
		t.Fatalf("error should name the parameter: %v", err)
	}
}

func TestFiltersAcceptsObjectAndTriples(t *testing.T) {
	if _, err := Filters("filters", `{"status": "Open"}`); err != nil {
		t.Fatalf("object form rejected: %v", err)
	}
	if _, err := Filters("filters", `[["status", "=", "Open"]]`); err != nil {
		t.Fatalf("triple form rejected: %v", err)
	}
}

func TestFiltersRejectsScalar(t *testing.T) {
	_, err := Filters("filters", `"Open"`)
	if !erpnext.IsKind(err, erpnext.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
}

func TestStringList(t *testing.T) {
	args := map[string]any{"fields": []any{"name", "status", 3}}
	got := StringList(args, "fields")
	if len(got) != 2 || got[0] != "name" || got[1] != "status" {
		t.Fatalf("unexpected result: %v", got)
	}
	if StringList(args, "missing") != nil {
		t.Fatal("missing key should yield nil")
	}
}

func TestOptionalBool(t *testing.T) {
	args := map[string]any{"is_private": false}
	got := OptionalBool(args, "is_private")
	if got == nil || *got != false {
		t.Fatalf("expected explicit false, got %v", got)
	}
	if OptionalBool(args, "missing") != nil {
		t.Fatal("missing key should yield nil")
	}
}
