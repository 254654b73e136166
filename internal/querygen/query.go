// Package querygen converts structured logo facets into natural language
// search queries and metadata filters for embedding-based similarity search.
package querygen

import (
	"fmt"
	"strings"
)

// themeDescriptions enriches a bare theme keyword into descriptive prose
// so the embedding has more signal to work with.
var themeDescriptions = map[string]string{
	"modern":  "clean, contemporary, sleek design with geometric precision",
	"minimal": "simple, understated, using negative space and clean lines",
	"bold":    "strong, impactful, high contrast with commanding presence",
	"elegant": "sophisticated, refined, graceful with premium feel",
	"playful": "fun, energetic, vibrant with friendly personality",
	"tech":    "digital, futuristic, innovative with technical aesthetic",
	"vintage": "retro, classic, nostalgic with timeless appeal",
	"organic": "natural, flowing, earthy with organic curves",
}

var typeDescriptions = map[string]string{
	"wordmark":    "text-based logo featuring the brand name in stylized typography",
	"lettermark":  "monogram or initials-based logo using abbreviated letters",
	"pictorial":   "icon or symbol-based logo representing the brand visually",
	"abstract":    "geometric or abstract shape logo with symbolic meaning",
	"mascot":      "character or mascot-based logo with personality",
	"combination": "combined text and symbol logo with integrated elements",
	"emblem":      "badge or seal-style logo with enclosed design",
}

var shapeDescriptions = map[string]string{
	"circle":   "circular, rounded, enclosed in a perfect circle",
	"hexagon":  "hexagonal, six-sided geometric shape",
	"triangle": "triangular, three-pointed geometric form",
	"diamond":  "diamond-shaped, rotated square form",
	"star":     "star-shaped, pointed radiating design",
	"shield":   "shield-shaped, protective badge form",
}

// Facets are the structured logo attributes a caller can search by.
// All fields are optional; empty strings are skipped.
type Facets struct {
	LogoType     string `json:"logo_type,omitempty"`
	Theme        string `json:"theme,omitempty"`
	Shape        string `json:"shape,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
	Text         string `json:"text,omitempty"`
	Description  string `json:"description,omitempty"`
	Industry     string `json:"industry,omitempty"`
}

// BuildQuery converts logo facets into a natural language query string.
//
// Phrases accumulate in a fixed order: description, type, theme, shape,
// colors, text, industry. The first three phrases are joined with " with ";
// any remainder is appended sentence-style. The output is deterministic for
// a given input.
//
// Parameters:
//   - facets: the structured attributes to describe
//
// Returns:
//   - string: the query text, or "professional logo design" when every
//     facet is empty
func BuildQuery(facets Facets) string {
	var parts []string

	if facets.Description != "" {
		parts = append(parts, facets.Description)
	}

	if facets.LogoType != "" {
		if desc, ok := typeDescriptions[facets.LogoType]; ok {
			parts = append(parts, desc)
		} else {
			parts = append(parts, fmt.Sprintf("%s style logo", facets.LogoType))
		}
	}

	if facets.Theme != "" {
		if desc, ok := themeDescriptions[facets.Theme]; ok {
			parts = append(parts, desc)
		} else {
			parts = append(parts, fmt.Sprintf("%s aesthetic", facets.Theme))
		}
	}

	if facets.Shape != "" {
		if desc, ok := shapeDescriptions[facets.Shape]; ok {
			parts = append(parts, desc)
		} else {
			parts = append(parts, fmt.Sprintf("%s shape", facets.Shape))
		}
	}

	var colors []string
	if facets.PrimaryColor != "" {
		colors = append(colors, fmt.Sprintf("primary color %s", DescribeColor(facets.PrimaryColor)))
	}
	if facets.AccentColor != "" {
		colors = append(colors, fmt.Sprintf("accent color %s", DescribeColor(facets.AccentColor)))
	}
	if len(colors) > 0 {
		parts = append(parts, strings.Join(colors, ", "))
	}

	if facets.Text != "" && textRelevant(facets.LogoType) {
		parts = append(parts, fmt.Sprintf("featuring text '%s'", facets.Text))
	}

	if facets.Industry != "" {
		parts = append(parts, fmt.Sprintf("suitable for %s industry", facets.Industry))
	}

	if len(parts) == 0 {
		return "professional logo design"
	}

	head := parts
	if len(head) > 3 {
		head = parts[:3]
	}
	query := strings.Join(head, " with ")
	if len(parts) > 3 {
		query += ". " + strings.Join(parts[3:], ". ")
	}
	return query
}

// textRelevant reports whether the logo type renders its text content,
// making the text worth including in the query.
func textRelevant(logoType string) bool {
	switch logoType {
	case "wordmark", "lettermark", "combination":
		return true
	}
	return false
}

// Condition is a single field-equals-value clause of a metadata filter.
type Condition struct {
	Field string
	Value string
}

// Filter is a conjunction of equality conditions applied to stored logo
// metadata during vector search. It carries no store-specific syntax;
// the repository translates it to the store's native filter format.
type Filter struct {
	Conditions []Condition
}

// BuildFilter produces a metadata filter from the filterable facets.
// Only logo type, theme, and shape participate in filtering; colors and
// text describe but never exclude.
//
// Returns:
//   - *Filter: a conjunction of equality conditions, or nil when no
//     filterable facet is set
func BuildFilter(logoType, theme, shape string) *Filter {
	var conditions []Condition

	if logoType != "" {
		conditions = append(conditions, Condition{Field: "logo_type", Value: logoType})
	}
	if theme != "" {
		conditions = append(conditions, Condition{Field: "theme", Value: theme})
	}
	if shape != "" {
		conditions = append(conditions, Condition{Field: "shape", Value: shape})
	}

	if len(conditions) == 0 {
		return nil
	}
	return &Filter{Conditions: conditions}
}
