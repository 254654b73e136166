package svg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

const svgNamespace = `xmlns="http://www.w3.org/2000/svg"`

// xmlDeclaration is the canonical prolog restored on output when the input
// carried one. The parser discards the original declaration, so it is
// re-added verbatim rather than round-tripped.
const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// SanitizationError is returned when SVG content cannot be sanitized:
// the input is empty, does not look like SVG, or fails to parse.
type SanitizationError struct {
	Message string
}

func (e *SanitizationError) Error() string {
	return e.Message
}

// allowedElements is the whitelist of SVG element names. Anything outside
// this set is removed together with its entire subtree. A whitelist fails
// closed for unknown or future tags.
var allowedElements = map[string]bool{
	"svg":            true,
	"g":              true,
	"path":           true,
	"rect":           true,
	"circle":         true,
	"ellipse":        true,
	"line":           true,
	"polyline":       true,
	"polygon":        true,
	"text":           true,
	"tspan":          true,
	"defs":           true,
	"lineargradient": true,
	"radialgradient": true,
	"stop":           true,
	"clippath":       true,
	"mask":           true,
	"use":            true,
	"symbol":         true,
	"title":          true,
	"desc":           true,
	"metadata":       true,
	"style":          true,
	"font":           true,
	"font-face":      true,
	"glyph":          true,
	"missing-glyph":  true,
}

// dangerousAttributes is the denylist of event-handler attribute names.
// The universe of benign attributes is large and moving, so attributes are
// denylisted rather than whitelisted.
var dangerousAttributes = map[string]bool{
	"onload":      true,
	"onerror":     true,
	"onclick":     true,
	"onmouseover": true,
	"onmouseout":  true,
	"onmousedown": true,
	"onmouseup":   true,
	"onfocus":     true,
	"onblur":      true,
	"onkeydown":   true,
	"onkeyup":     true,
	"onkeypress":  true,
	"onchange":    true,
	"onsubmit":    true,
	"onreset":     true,
	"onselect":    true,
	"onabort":     true,
}

// dangerousSchemes are URI scheme prefixes that must not appear anywhere in
// an attribute value or a CSS url() argument.
var dangerousSchemes = []string{"javascript:", "data:", "vbscript:"}

var (
	cssExpressionRe = regexp.MustCompile(`(?i)expression\s*\([^)]*\)`)
	cssURLRe        = regexp.MustCompile(`(?i)url\s*\(\s*([^)]*?)\s*\)`)
)

// Sanitize removes potentially dangerous content from an SVG string.
// Non-whitelisted elements are dropped with their subtrees, event-handler
// attributes and attributes carrying dangerous URI schemes are removed, and
// style content is passed through CSS sanitization. Returns a
// *SanitizationError if the input is empty, not SVG-shaped, or malformed.
func Sanitize(svgContent string) (string, error) {
	content := strings.TrimSpace(svgContent)
	if content == "" {
		return "", &SanitizationError{Message: "empty SVG content"}
	}
	if !strings.HasPrefix(content, "<svg") && !strings.HasPrefix(content, "<?xml") {
		return "", &SanitizationError{Message: "content does not appear to be SVG"}
	}
	hadProlog := strings.HasPrefix(content, "<?xml")

	doc := etree.NewDocument()
	if err := doc.ReadFromString(normalizeNamespace(content)); err != nil {
		return "", &SanitizationError{Message: fmt.Sprintf("failed to parse SVG: %v", err)}
	}
	root := doc.Root()
	if root == nil {
		return "", &SanitizationError{Message: "failed to parse SVG: no root element"}
	}

	sanitizeElement(root)

	out := etree.NewDocument()
	out.SetRoot(root.Copy())
	result, err := out.WriteToString()
	if err != nil {
		return "", &SanitizationError{Message: fmt.Sprintf("failed to serialize SVG: %v", err)}
	}
	result = strings.TrimSuffix(result, "\n")

	if hadProlog {
		result = xmlDeclaration + "\n" + result
	}
	return result, nil
}

// normalizeNamespace injects the SVG default namespace declaration into the
// root tag when absent, so namespaced documents and bare ones parse alike.
func normalizeNamespace(content string) string {
	if strings.Contains(content, svgNamespace) {
		return content
	}
	return strings.Replace(content, "<svg", "<svg "+svgNamespace, 1)
}

// sanitizeElement sanitizes an element tree in place, pre-order. Removed
// children are not recursed into.
func sanitizeElement(el *etree.Element) {
	var removals []*etree.Element
	var survivors []*etree.Element
	for _, child := range el.ChildElements() {
		if !allowedElements[strings.ToLower(child.Tag)] {
			removals = append(removals, child)
		} else {
			survivors = append(survivors, child)
		}
	}
	for _, child := range removals {
		el.RemoveChild(child)
	}
	for _, child := range survivors {
		sanitizeElement(child)
	}

	var attrRemovals []string
	for _, attr := range el.Attr {
		if dangerousAttributes[strings.ToLower(attr.Key)] || hasDangerousScheme(attr.Value) {
			attrRemovals = append(attrRemovals, attr.FullKey())
		}
	}
	for _, key := range attrRemovals {
		el.RemoveAttr(key)
	}

	if strings.EqualFold(el.Tag, "style") {
		if text := el.Text(); text != "" {
			el.SetText(sanitizeCSS(text))
		}
	}
}

// hasDangerousScheme reports whether a value contains any dangerous URI
// scheme, case-insensitive, anywhere in the string.
func hasDangerousScheme(value string) bool {
	lower := strings.ToLower(value)
	for _, scheme := range dangerousSchemes {
		if strings.Contains(lower, scheme) {
			return true
		}
	}
	return false
}

// sanitizeCSS strips legacy expression() script vectors and url() constructs
// whose argument carries a dangerous scheme. Benign url() references are
// left untouched.
func sanitizeCSS(css string) string {
	sanitized := cssExpressionRe.ReplaceAllString(css, "")

	sanitized = cssURLRe.ReplaceAllStringFunc(sanitized, func(match string) string {
		sub := cssURLRe.FindStringSubmatch(match)
		if len(sub) > 1 && hasDangerousScheme(sub[1]) {
			return ""
		}
		return match
	})

	return sanitized
}
