package domain

// LogoType is the fixed vocabulary for logo classification.
// Unknown values are tolerated and passed through rather than rejected,
// so records written by newer clients remain readable.
type LogoType string

const (
	LogoTypeWordmark    LogoType = "wordmark"
	LogoTypeLettermark  LogoType = "lettermark"
	LogoTypePictorial   LogoType = "pictorial"
	LogoTypeAbstract    LogoType = "abstract"
	LogoTypeMascot      LogoType = "mascot"
	LogoTypeCombination LogoType = "combination"
	LogoTypeEmblem      LogoType = "emblem"
)

// KnownLogoTypes lists the recognized logo type values.
var KnownLogoTypes = []LogoType{
	LogoTypeWordmark,
	LogoTypeLettermark,
	LogoTypePictorial,
	LogoTypeAbstract,
	LogoTypeMascot,
	LogoTypeCombination,
	LogoTypeEmblem,
}

// LogoMetadata is the metadata stored alongside a logo embedding in the
// vector store. LogoID is the sole join key with the store and never
// changes; Description is never empty once a record exists.
type LogoMetadata struct {
	LogoID       string `json:"logo_id"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description"`
	LogoType     string `json:"logo_type"`
	Theme        string `json:"theme,omitempty"`
	Shape        string `json:"shape,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
	Text         string `json:"text,omitempty"`
	SVGURL       string `json:"svg_url,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// LogoEmbedding pairs a logo with its embedding vector for storage.
// The document is the text that was embedded, normally the description.
type LogoEmbedding struct {
	ID        string       `json:"id"`
	Embedding []float32    `json:"embedding"`
	Metadata  LogoMetadata `json:"metadata"`
	Document  string       `json:"document"`
}

// SimilarLogo is a query-result-only view of a logo. Score is derived from
// vector distance at query time (higher means more similar) and is never
// persisted.
type SimilarLogo struct {
	ID       string       `json:"id"`
	Score    float64      `json:"score"`
	Metadata LogoMetadata `json:"metadata"`
	SVGURL   string       `json:"svg_url,omitempty"`
}
