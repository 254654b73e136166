package svg

import (
	"strings"
	"testing"
)

func TestValidateWellFormed(t *testing.T) {
	result := Validate(`<svg viewBox="0 0 100 100" width="100" height="100"><rect width="10" height="10"/></svg>`)

	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
	if !result.HasViewBox {
		t.Error("expected HasViewBox to be true")
	}
	if !result.HasDimensions {
		t.Error("expected HasDimensions to be true")
	}
	if result.ElementCount != 2 {
		t.Errorf("expected element count 2, got %d", result.ElementCount)
	}
}

func TestValidateMissingMetadata(t *testing.T) {
	result := Validate(`<svg><circle r="5"/></svg>`)

	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
	if result.HasViewBox {
		t.Error("expected HasViewBox to be false")
	}
	if result.HasDimensions {
		t.Error("expected HasDimensions to be false")
	}
}

func TestValidatePartialDimensions(t *testing.T) {
	result := Validate(`<svg width="100"><rect/></svg>`)

	if result.HasDimensions {
		t.Error("expected HasDimensions to be false with only width set")
	}
}

func TestValidateMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated", input: `<svg><rect`},
		{name: "empty", input: ""},
		{name: "mismatched", input: `<svg><g></svg></g>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if result.Valid {
				t.Error("expected invalid")
			}
			if len(result.Errors) == 0 {
				t.Error("expected at least one error")
			}
			if result.ElementCount != 0 {
				t.Errorf("expected element count 0, got %d", result.ElementCount)
			}
		})
	}
}

func TestValidateNonSVGRoot(t *testing.T) {
	result := Validate(`<html><body/></html>`)

	if result.Valid {
		t.Error("expected invalid for non-svg root")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "svg") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error mentioning svg root, got %v", result.Errors)
	}
}

func TestValidateNestedCount(t *testing.T) {
	result := Validate(`<svg><g><rect/><circle/></g><text>x</text></svg>`)

	if result.ElementCount != 5 {
		t.Errorf("expected element count 5, got %d", result.ElementCount)
	}
}
