package directory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/brandkit/logodex/internal/source"
)

const (
	SourceID   = "directory"
	SourceName = "Local Directory"
)

// Adapter implements the Source interface for a directory tree of SVG
// files. Subdirectory names are treated as themes.
type Adapter struct {
	rootPath string
	items    []source.LogoItem // Cached items
	loaded   bool
}

// NewAdapter creates a new directory adapter
func NewAdapter(rootPath string) *Adapter {
	return &Adapter{
		rootPath: rootPath,
	}
}

// GetSourceID returns the unique identifier for this source
func (a *Adapter) GetSourceID() string {
	return SourceID
}

// GetDisplayName returns a human-readable name for this source
func (a *Adapter) GetDisplayName() string {
	return SourceName
}

// FetchBatch fetches a batch of logo items
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]source.LogoItem, string, error) {
	// Load all items on first call
	if !a.loaded {
		if err := a.loadItems(); err != nil {
			return nil, "", fmt.Errorf("failed to load items: %w", err)
		}
		a.loaded = true
	}

	// Parse cursor (index)
	startIndex := 0
	if cursor != "" {
		var err error
		startIndex, err = strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
	}

	if startIndex >= len(a.items) {
		return []source.LogoItem{}, "", nil // No more items
	}

	endIndex := startIndex + limit
	if endIndex > len(a.items) {
		endIndex = len(a.items)
	}

	batch := a.items[startIndex:endIndex]

	nextCursor := ""
	if endIndex < len(a.items) {
		nextCursor = strconv.Itoa(endIndex)
	}

	return batch, nextCursor, nil
}

// loadItems scans the directory tree and loads all SVG items
func (a *Adapter) loadItems() error {
	if _, err := os.Stat(a.rootPath); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", a.rootPath)
	}

	a.items = []source.LogoItem{}

	err := filepath.Walk(a.rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".svg") {
			return nil
		}

		// A subdirectory name doubles as the theme
		theme := filepath.Base(filepath.Dir(path))
		if theme == filepath.Base(a.rootPath) {
			theme = ""
		}

		relPath, _ := filepath.Rel(a.rootPath, path)
		sourceID := strings.ReplaceAll(relPath, string(os.PathSeparator), "_")

		a.items = append(a.items, source.LogoItem{
			SourceID:  sourceID,
			Name:      strings.TrimSuffix(name, filepath.Ext(name)),
			LocalPath: path,
			Theme:     theme,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort items by source ID for consistent ordering
	sort.Slice(a.items, func(i, j int) bool {
		return a.items[i].SourceID < a.items[j].SourceID
	})

	return nil
}

// GetTotalCount returns the total number of items
func (a *Adapter) GetTotalCount() (int, error) {
	if !a.loaded {
		if err := a.loadItems(); err != nil {
			return 0, err
		}
		a.loaded = true
	}
	return len(a.items), nil
}
