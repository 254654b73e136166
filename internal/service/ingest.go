package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/logger"
	"github.com/brandkit/logodex/internal/querygen"
	"github.com/brandkit/logodex/internal/render"
	"github.com/brandkit/logodex/internal/repository"
	"github.com/brandkit/logodex/internal/storage"
	"github.com/brandkit/logodex/internal/svg"
)

const visionMaxImageSize = 1024

// IngestRequest describes a single logo to ingest.
type IngestRequest struct {
	SVG          string `json:"svg" binding:"required"`
	Name         string `json:"name,omitempty"`
	LogoType     string `json:"logo_type,omitempty"`
	Theme        string `json:"theme,omitempty"`
	Shape        string `json:"shape,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
	Text         string `json:"text,omitempty"`
	SVGURL       string `json:"svg_url,omitempty"`
}

// IngestResult is the outcome of a single logo ingestion. Failures are
// reported in-band rather than as errors so batch processing can record
// per-item outcomes.
type IngestResult struct {
	Success     bool   `json:"success"`
	LogoID      string `json:"logo_id,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// LogoUpdate carries a partial metadata update. Nil fields are left
// unchanged. The description is derived from the rendered image and is not
// updatable, so the stored embedding never goes stale.
type LogoUpdate struct {
	Name         *string `json:"name,omitempty"`
	LogoType     *string `json:"logo_type,omitempty"`
	Theme        *string `json:"theme,omitempty"`
	Shape        *string `json:"shape,omitempty"`
	PrimaryColor *string `json:"primary_color,omitempty"`
	AccentColor  *string `json:"accent_color,omitempty"`
	Text         *string `json:"text,omitempty"`
}

// DeleteResult reports a (possibly batch) deletion. Success is true only
// when every requested ID was deleted.
type DeleteResult struct {
	Success    bool     `json:"success"`
	DeletedIDs []string `json:"deleted_ids"`
	Errors     []string `json:"errors,omitempty"`
}

// RenderOptions controls the rasterization used for vision analysis.
type RenderOptions struct {
	Width  int
	Height int
	Scale  int
}

// IngestService runs the logo ingestion pipeline: sanitize, render,
// describe, embed, store. It also owns metadata CRUD against the vector
// store.
type IngestService struct {
	store         VectorStore
	embedder      Embedder
	describer     Describer
	renderer      render.Renderer
	objectStorage storage.ObjectStorage
	trail         *audit.Trail
	renderOpts    RenderOptions
}

// NewIngestService creates an ingest service. objectStorage may be nil, in
// which case sanitized SVGs are not uploaded and records carry no svg_url
// unless the caller supplies one.
func NewIngestService(
	store VectorStore,
	embedder Embedder,
	describer Describer,
	renderer render.Renderer,
	objectStorage storage.ObjectStorage,
	trail *audit.Trail,
	renderOpts RenderOptions,
) *IngestService {
	if renderOpts.Width <= 0 {
		renderOpts.Width = 512
	}
	if renderOpts.Height <= 0 {
		renderOpts.Height = 512
	}
	if renderOpts.Scale <= 0 {
		renderOpts.Scale = 2
	}
	return &IngestService{
		store:         store,
		embedder:      embedder,
		describer:     describer,
		renderer:      renderer,
		objectStorage: objectStorage,
		trail:         trail,
		renderOpts:    renderOpts,
	}
}

// IngestLogo processes a single logo end to end. Failures are returned
// in-band; the method itself never fails.
//
// Pipeline:
//  1. Sanitize the SVG.
//  2. Render to PNG and downscale for vision analysis.
//  3. Generate a description with the vision model.
//  4. Upload the sanitized SVG to object storage (when configured).
//  5. Embed the description and upsert into the vector store.
func (s *IngestService) IngestLogo(ctx context.Context, req IngestRequest) IngestResult {
	sanitized, err := svg.Sanitize(req.SVG)
	if err != nil {
		return s.failure(ctx, req.Name, fmt.Errorf("SVG sanitization failed: %w", err))
	}

	logoType := req.LogoType
	if logoType == "" {
		logoType = string(domain.LogoTypeAbstract)
	}

	png, err := s.renderer.Render(ctx, sanitized, s.renderOpts.Width, s.renderOpts.Height, s.renderOpts.Scale)
	if err != nil {
		return s.failure(ctx, req.Name, fmt.Errorf("failed to render logo: %w", err))
	}
	png, err = render.OptimizeForVision(png, visionMaxImageSize)
	if err != nil {
		return s.failure(ctx, req.Name, fmt.Errorf("failed to optimize render: %w", err))
	}

	description, err := s.describer.DescribeLogo(ctx, png)
	if err != nil {
		return s.failure(ctx, req.Name, fmt.Errorf("failed to describe logo: %w", err))
	}

	logoID := uuid.New().String()

	svgURL := req.SVGURL
	if svgURL == "" && s.objectStorage != nil {
		svgURL, err = storage.UploadSVG(ctx, s.objectStorage, logoID, sanitized)
		if err != nil {
			// Storage is auxiliary; ingestion proceeds without a URL.
			logger.CtxWarn(ctx, "failed to upload svg for logo %s: %v", logoID, err)
			svgURL = ""
		}
	}

	metadata := domain.LogoMetadata{
		LogoID:       logoID,
		Name:         req.Name,
		Description:  description,
		LogoType:     logoType,
		Theme:        req.Theme,
		Shape:        req.Shape,
		PrimaryColor: req.PrimaryColor,
		AccentColor:  req.AccentColor,
		Text:         req.Text,
		SVGURL:       svgURL,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	vector, err := s.embedder.Embed(ctx, description)
	if err != nil {
		return s.failure(ctx, req.Name, fmt.Errorf("failed to embed description: %w", err))
	}

	point := repository.LogoPoint{
		ID:       logoID,
		Metadata: metadata,
		Document: description,
	}
	if err := s.store.Upsert(ctx, point, vector); err != nil {
		return s.failure(ctx, req.Name, fmt.Errorf("failed to store logo: %w", err))
	}

	s.trail.Record(ctx, audit.Entry{
		Action:     audit.ActionLogoIngested,
		ResourceID: logoID,
		Details:    req.Name,
		Success:    true,
	})

	return IngestResult{
		Success:     true,
		LogoID:      logoID,
		Description: description,
	}
}

// failure audits and wraps a pipeline failure into an in-band result.
func (s *IngestService) failure(ctx context.Context, name string, err error) IngestResult {
	s.trail.Record(ctx, audit.Entry{
		Action:  audit.ActionLogoIngested,
		Details: name,
		Success: false,
		Error:   err.Error(),
	})
	return IngestResult{Success: false, Error: err.Error()}
}

// GetLogo returns a logo's metadata, or nil when it does not exist.
func (s *IngestService) GetLogo(ctx context.Context, logoID string) (*domain.LogoMetadata, error) {
	point, err := s.store.Get(ctx, logoID)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return nil, nil
	}
	meta := point.Metadata
	return &meta, nil
}

// ListLogos pages through stored logos. The offset token resumes a previous
// page; empty starts from the beginning. A non-nil filter restricts the page
// to logos whose metadata matches every condition.
func (s *IngestService) ListLogos(ctx context.Context, limit int, offsetToken string, filter *querygen.Filter) ([]domain.LogoMetadata, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	points, next, err := s.store.List(ctx, uint32(limit), offsetToken, filter)
	if err != nil {
		return nil, "", err
	}

	logos := make([]domain.LogoMetadata, len(points))
	for i, point := range points {
		logos[i] = point.Metadata
	}
	return logos, next, nil
}

// CountLogos returns the number of stored logos.
func (s *IngestService) CountLogos(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// UpdateLogo applies a partial metadata update. The embedding is untouched
// since the description cannot change. Returns the updated metadata, or nil
// when the logo does not exist.
func (s *IngestService) UpdateLogo(ctx context.Context, logoID string, update LogoUpdate) (*domain.LogoMetadata, error) {
	point, err := s.store.Get(ctx, logoID)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return nil, nil
	}

	meta := point.Metadata
	var updated []string
	apply := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			updated = append(updated, field)
		}
	}
	apply("name", &meta.Name, update.Name)
	apply("logo_type", &meta.LogoType, update.LogoType)
	apply("theme", &meta.Theme, update.Theme)
	apply("shape", &meta.Shape, update.Shape)
	apply("primary_color", &meta.PrimaryColor, update.PrimaryColor)
	apply("accent_color", &meta.AccentColor, update.AccentColor)
	apply("text", &meta.Text, update.Text)

	if len(updated) == 0 {
		return &meta, nil
	}

	if err := s.store.SetMetadata(ctx, logoID, meta, point.Document); err != nil {
		s.trail.Record(ctx, audit.Entry{
			Action:     audit.ActionLogoUpdated,
			ResourceID: logoID,
			Success:    false,
			Error:      err.Error(),
		})
		return nil, err
	}

	s.trail.Record(ctx, audit.Entry{
		Action:     audit.ActionLogoUpdated,
		ResourceID: logoID,
		Details:    fmt.Sprintf("fields: %v", updated),
		Success:    true,
	})
	return &meta, nil
}

// DeleteLogo removes a single logo from the vector store and its stored
// SVG from object storage. Returns false when the logo does not exist.
func (s *IngestService) DeleteLogo(ctx context.Context, logoID string) (bool, error) {
	point, err := s.store.Get(ctx, logoID)
	if err != nil {
		return false, err
	}
	if point == nil {
		return false, nil
	}

	if err := s.store.Delete(ctx, logoID); err != nil {
		s.trail.Failure(ctx, audit.ActionLogoDeleted, logoID, err)
		return false, err
	}

	if s.objectStorage != nil {
		if err := storage.DeleteSVG(ctx, s.objectStorage, logoID); err != nil {
			logger.CtxWarn(ctx, "failed to delete stored svg for logo %s: %v", logoID, err)
		}
	}

	s.trail.Success(ctx, audit.ActionLogoDeleted, logoID)
	return true, nil
}

// DeleteLogos removes multiple logos, continuing past individual failures.
func (s *IngestService) DeleteLogos(ctx context.Context, logoIDs []string) DeleteResult {
	result := DeleteResult{DeletedIDs: []string{}}

	for _, logoID := range logoIDs {
		found, err := s.DeleteLogo(ctx, logoID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", logoID, err))
			continue
		}
		if !found {
			result.Errors = append(result.Errors, fmt.Sprintf("logo %s not found", logoID))
			continue
		}
		result.DeletedIDs = append(result.DeletedIDs, logoID)
	}

	result.Success = len(result.Errors) == 0
	return result
}
