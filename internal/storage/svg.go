package storage

import (
	"context"
	"fmt"
	"strings"
)

const svgContentType = "image/svg+xml"

// SVGObjectKey returns the storage key for a logo's sanitized SVG document.
func SVGObjectKey(logoID string) string {
	return fmt.Sprintf("logos/%s.svg", logoID)
}

// UploadSVG stores a sanitized SVG document under the logo's key and
// returns its public URL.
// Parameters:
//   - ctx: request context.
//   - store: object storage backend.
//   - logoID: logo identifier used to derive the object key.
//   - svgContent: sanitized SVG markup.
// Returns:
//   - string: public URL of the stored document.
//   - error: non-nil if the upload fails.
func UploadSVG(ctx context.Context, store ObjectStorage, logoID, svgContent string) (string, error) {
	key := SVGObjectKey(logoID)
	reader := strings.NewReader(svgContent)
	if err := store.Upload(ctx, key, reader, int64(len(svgContent)), svgContentType); err != nil {
		return "", fmt.Errorf("failed to upload svg for logo %s: %w", logoID, err)
	}
	return store.GetURL(key), nil
}

// DeleteSVG removes a logo's stored SVG document. Missing objects are not
// an error; deletion is idempotent.
func DeleteSVG(ctx context.Context, store ObjectStorage, logoID string) error {
	return store.Delete(ctx, SVGObjectKey(logoID))
}
