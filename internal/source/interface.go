package source

import "context"

// LogoItem represents a logo from a data source, ready for ingestion.
type LogoItem struct {
	SourceID     string // Unique ID within the source
	Name         string // Logo name
	LocalPath    string // Path to the SVG file
	LogoType     string // wordmark, lettermark, pictorial, ...
	Theme        string
	Shape        string
	PrimaryColor string
	AccentColor  string
	Text         string
}

// Source defines the interface for logo data sources.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	// Parameters: none.
	// Returns:
	//   - string: display-friendly source name.
	GetDisplayName() string

	// FetchBatch fetches a batch of logo items starting from the given cursor.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - cursor: pagination cursor or empty for first page.
	//   - limit: maximum number of items to fetch.
	// Returns:
	//   - items: batch of logo items.
	//   - nextCursor: cursor for the next batch or empty if done.
	//   - err: non-nil if fetching fails.
	FetchBatch(ctx context.Context, cursor string, limit int) (items []LogoItem, nextCursor string, err error)
}
