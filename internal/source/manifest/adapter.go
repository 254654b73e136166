package manifest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/brandkit/logodex/internal/source"
)

const (
	// ManifestFileName is the JSONL manifest file name.
	ManifestFileName = "manifest.jsonl"
	// LogosDir is the directory name holding the SVG files.
	LogosDir = "logos"
)

// ManifestItem represents an item in the manifest.jsonl file.
type ManifestItem struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	Name         string `json:"name"`
	LogoType     string `json:"logo_type"`
	Theme        string `json:"theme"`
	Shape        string `json:"shape"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	Text         string `json:"text"`
}

// Adapter implements the Source interface for a manifest-described logo
// collection: a manifest.jsonl next to a logos/ directory of SVG files.
type Adapter struct {
	basePath string
	sourceID string
	items    []source.LogoItem
	loaded   bool
}

// NewAdapter creates a new manifest adapter.
// Parameters:
//   - basePath: base path containing manifest.jsonl and the logos directory.
//   - sourceID: identifier for this collection.
// Returns:
//   - *Adapter: initialized manifest adapter.
func NewAdapter(basePath, sourceID string) *Adapter {
	return &Adapter{
		basePath: basePath,
		sourceID: sourceID,
	}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return "manifest:" + a.sourceID
}

// GetDisplayName returns a human-readable name for this source.
func (a *Adapter) GetDisplayName() string {
	return fmt.Sprintf("Manifest (%s)", a.sourceID)
}

// FetchBatch fetches a batch of logo items.
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]source.LogoItem, string, error) {
	if !a.loaded {
		if err := a.loadItems(); err != nil {
			return nil, "", fmt.Errorf("failed to load manifest: %w", err)
		}
		a.loaded = true
	}

	startIndex := 0
	if cursor != "" {
		var err error
		startIndex, err = strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
	}

	if startIndex >= len(a.items) {
		return []source.LogoItem{}, "", nil
	}

	endIndex := startIndex + limit
	if endIndex > len(a.items) {
		endIndex = len(a.items)
	}

	nextCursor := ""
	if endIndex < len(a.items) {
		nextCursor = strconv.Itoa(endIndex)
	}

	return a.items[startIndex:endIndex], nextCursor, nil
}

// loadItems parses the manifest and resolves each entry's SVG path.
// Entries whose file is missing are skipped rather than failing the whole
// manifest.
func (a *Adapter) loadItems() error {
	manifestPath := filepath.Join(a.basePath, ManifestFileName)
	f, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	a.items = []source.LogoItem{}

	scanner := bufio.NewScanner(f)
	// SVG manifests stay small per line, but allow generous headroom.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item ManifestItem
		if err := json.Unmarshal(line, &item); err != nil {
			return fmt.Errorf("invalid manifest line %d: %w", lineNo, err)
		}

		localPath := filepath.Join(a.basePath, LogosDir, item.Filename)
		if _, err := os.Stat(localPath); err != nil {
			continue
		}

		a.items = append(a.items, source.LogoItem{
			SourceID:     item.ID,
			Name:         item.Name,
			LocalPath:    localPath,
			LogoType:     item.LogoType,
			Theme:        item.Theme,
			Shape:        item.Shape,
			PrimaryColor: item.PrimaryColor,
			AccentColor:  item.AccentColor,
			Text:         item.Text,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	sort.Slice(a.items, func(i, j int) bool {
		return a.items[i].SourceID < a.items[j].SourceID
	})

	return nil
}
