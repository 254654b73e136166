package svg

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ValidationResult reports well-formedness plus coarse shape metadata for
// an SVG document.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	HasViewBox    bool     `json:"has_viewbox"`
	HasDimensions bool     `json:"has_dimensions"`
	ElementCount  int      `json:"element_count"`
	Errors        []string `json:"errors"`
}

// Validate checks SVG structure and extracts basic metadata. It never
// fails: parse errors are captured into Errors with Valid=false and zero
// counts.
func Validate(svgContent string) ValidationResult {
	result := ValidationResult{Errors: []string{}}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(svgContent); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parse error: %v", err))
		return result
	}
	root := doc.Root()
	if root == nil {
		result.Errors = append(result.Errors, "parse error: no root element")
		return result
	}

	if !strings.EqualFold(root.Tag, "svg") {
		result.Errors = append(result.Errors, "root element is not <svg>")
		return result
	}

	result.HasViewBox = root.SelectAttr("viewBox") != nil
	result.HasDimensions = root.SelectAttr("width") != nil && root.SelectAttr("height") != nil
	result.ElementCount = countElements(root)
	result.Valid = true

	return result
}

// countElements walks the full subtree including the element itself.
func countElements(el *etree.Element) int {
	count := 1
	for _, child := range el.ChildElements() {
		count += countElements(child)
	}
	return count
}
