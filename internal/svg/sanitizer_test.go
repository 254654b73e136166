package svg

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   \n\t  "},
		{name: "not svg", input: "<html><body>hello</body></html>"},
		{name: "plain text", input: "just some text"},
		{name: "unclosed root", input: "<svg><rect"},
		{name: "mismatched tags", input: "<svg><rect></circle></svg>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sanitize(tt.input)
			if err == nil {
				t.Fatalf("expected error for input %q", tt.input)
			}
			var sanErr *SanitizationError
			if !errors.As(err, &sanErr) {
				t.Errorf("expected *SanitizationError, got %T", err)
			}
		})
	}
}

func TestSanitizeRemovesDisallowedElements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		excluded []string
	}{
		{
			name:     "script element",
			input:    `<svg><script>alert(1)</script><rect width="10"/></svg>`,
			excluded: []string{"script", "alert"},
		},
		{
			name:     "nested disallowed element",
			input:    `<svg><g><foreignObject><iframe src="x"/></foreignObject><circle r="5"/></g></svg>`,
			excluded: []string{"foreignObject", "iframe"},
		},
		{
			name:     "subtree of removed element goes with it",
			input:    `<svg><animate><rect width="1"/></animate></svg>`,
			excluded: []string{"animate", `width="1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Sanitize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, fragment := range tt.excluded {
				if strings.Contains(out, fragment) {
					t.Errorf("expected output to not contain %q, got %q", fragment, out)
				}
			}
		})
	}
}

func TestSanitizeKeepsAllowedElements(t *testing.T) {
	input := `<svg viewBox="0 0 100 100"><defs><linearGradient id="g"><stop offset="0"/></linearGradient></defs><g><rect width="10" height="10"/><circle r="5"/><text>ACME</text></g></svg>`

	out, err := Sanitize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tag := range []string{"<defs>", "<linearGradient", "<stop", "<rect", "<circle", "<text>ACME</text>"} {
		if !strings.Contains(out, tag) {
			t.Errorf("expected output to contain %q, got %q", tag, out)
		}
	}
}

func TestSanitizeRemovesDangerousAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		excluded string
	}{
		{
			name:     "onload on root",
			input:    `<svg onload="alert(1)"><rect/></svg>`,
			excluded: "onload",
		},
		{
			name:     "onclick on nested element",
			input:    `<svg><rect onclick="steal()"/></svg>`,
			excluded: "onclick",
		},
		{
			name:     "mixed case handler",
			input:    `<svg><circle OnError="x()"/></svg>`,
			excluded: "x()",
		},
		{
			name:     "javascript scheme in href",
			input:    `<svg><use href="javascript:alert(1)"/></svg>`,
			excluded: "javascript",
		},
		{
			name:     "uppercase scheme",
			input:    `<svg><use href="JaVaScRiPt:alert(1)"/></svg>`,
			excluded: "href",
		},
		{
			name:     "data scheme buried in value",
			input:    `<svg><image href="foo data:text/html;base64,xyz"/></svg>`,
			excluded: "data:",
		},
		{
			name:     "vbscript scheme",
			input:    `<svg><a href="vbscript:msgbox"/></svg>`,
			excluded: "vbscript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Sanitize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(strings.ToLower(out), strings.ToLower(tt.excluded)) {
				t.Errorf("expected output to not contain %q, got %q", tt.excluded, out)
			}
		})
	}
}

func TestSanitizeKeepsBenignAttributes(t *testing.T) {
	out, err := Sanitize(`<svg viewBox="0 0 10 10"><rect width="10" height="10" fill="#ff0000"/></svg>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, attr := range []string{`viewBox="0 0 10 10"`, `width="10"`, `fill="#ff0000"`} {
		if !strings.Contains(out, attr) {
			t.Errorf("expected output to contain %q, got %q", attr, out)
		}
	}
}

func TestSanitizeCSS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		excluded []string
		included []string
	}{
		{
			name:     "expression stripped",
			input:    `<svg><style>body{x:expression(alert(1))}</style></svg>`,
			excluded: []string{"expression("},
			included: []string{"<style>"},
		},
		{
			name:     "dangerous url dropped",
			input:    `<svg><style>.a{background:url(javascript:alert(1))}</style></svg>`,
			excluded: []string{"javascript"},
		},
		{
			name:     "benign url kept",
			input:    `<svg><style>.a{fill:url(#grad)}</style></svg>`,
			included: []string{"url(#grad)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Sanitize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, fragment := range tt.excluded {
				if strings.Contains(out, fragment) {
					t.Errorf("expected output to not contain %q, got %q", fragment, out)
				}
			}
			for _, fragment := range tt.included {
				if !strings.Contains(out, fragment) {
					t.Errorf("expected output to contain %q, got %q", fragment, out)
				}
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`<svg viewBox="0 0 100 100"><script>bad()</script><rect onload="x()" width="10"/></svg>`,
		`<svg><style>a{x:expression(1)}</style><g><circle r="3"/></g></svg>`,
		`<?xml version="1.0"?><svg><text>hello</text></svg>`,
	}

	for _, input := range inputs {
		once, err := Sanitize(input)
		if err != nil {
			t.Fatalf("first pass failed for %q: %v", input, err)
		}
		twice, err := Sanitize(once)
		if err != nil {
			t.Fatalf("second pass failed for %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("sanitize not idempotent:\nfirst:  %q\nsecond: %q", once, twice)
		}
	}
}

func TestSanitizePrologRoundTrip(t *testing.T) {
	withProlog := `<?xml version="1.0" encoding="utf-8"?><svg><rect/></svg>`
	out, err := Sanitize(withProlog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, xmlDeclaration) {
		t.Errorf("expected output to start with canonical declaration, got %q", out)
	}

	withoutProlog := `<svg><rect/></svg>`
	out, err = Sanitize(withoutProlog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<?xml") {
		t.Errorf("expected no declaration in output, got %q", out)
	}
}

func TestSanitizeInjectsNamespace(t *testing.T) {
	out, err := Sanitize(`<svg><rect/></svg>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "http://www.w3.org/2000/svg") {
		t.Errorf("expected namespace declaration in output, got %q", out)
	}
}
