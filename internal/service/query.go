package service

import (
	"context"
	"fmt"
	"time"

	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/logger"
	"github.com/brandkit/logodex/internal/querygen"
)

const (
	defaultQueryLimit = 5
	maxQueryLimit     = 50
)

// SimilarityRequest carries the parameters for a similarity query. Either a
// free-text query or a set of structured facets; the facets double as
// metadata filters (logo type, theme, shape only).
type SimilarityRequest struct {
	Query        string `json:"query,omitempty"`
	LogoType     string `json:"logo_type,omitempty"`
	Theme        string `json:"theme,omitempty"`
	Shape        string `json:"shape,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
	Text         string `json:"text,omitempty"`
	NResults     int    `json:"n_results,omitempty"`
}

// SimilarityResponse is the result of a similarity query. Success is true
// even in degraded mode; Degraded plus Error explain missing results.
type SimilarityResponse struct {
	Success   bool                 `json:"success"`
	Results   []domain.SimilarLogo `json:"results"`
	QueryUsed string               `json:"query_used,omitempty"`
	Degraded  bool                 `json:"degraded"`
	Error     string               `json:"error,omitempty"`
}

// QueryService orchestrates similarity search: query synthesis, embedding,
// vector search, and distance-to-score conversion. It never returns errors
// to callers; store and embedding failures degrade to empty results.
type QueryService struct {
	store        VectorStore
	embedder     Embedder
	trail        *audit.Trail
	defaultLimit int
	maxLimit     int
}

// NewQueryService creates a query service. A nil store or embedder puts the
// service permanently in degraded mode, which is how an unconfigured
// deployment behaves.
func NewQueryService(store VectorStore, embedder Embedder, trail *audit.Trail, defaultLimit, maxLimit int) *QueryService {
	if defaultLimit <= 0 {
		defaultLimit = defaultQueryLimit
	}
	if maxLimit <= 0 {
		maxLimit = maxQueryLimit
	}
	return &QueryService{
		store:        store,
		embedder:     embedder,
		trail:        trail,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// IsConfigured reports whether similarity search can run at all.
func (s *QueryService) IsConfigured() bool {
	return s.store != nil && s.embedder != nil
}

// FindSimilar finds logos similar to the request. It always returns a
// response with Success=true: configuration gaps and store failures produce
// a degraded response with empty results instead of an error.
func (s *QueryService) FindSimilar(ctx context.Context, req SimilarityRequest) SimilarityResponse {
	if !s.IsConfigured() {
		return SimilarityResponse{
			Success:  true,
			Results:  []domain.SimilarLogo{},
			Degraded: true,
			Error:    "similarity search not configured - vector store credentials missing",
		}
	}

	// Determine the query text: caller-supplied free text wins, otherwise
	// synthesize from the structured facets.
	queryText := req.Query
	if queryText == "" {
		queryText = querygen.BuildQuery(querygen.Facets{
			LogoType:     req.LogoType,
			Theme:        req.Theme,
			Shape:        req.Shape,
			PrimaryColor: req.PrimaryColor,
			AccentColor:  req.AccentColor,
			Text:         req.Text,
		})
	}

	filter := querygen.BuildFilter(req.LogoType, req.Theme, req.Shape)

	limit := req.NResults
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	start := time.Now()

	vector, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return s.degraded(ctx, queryText, fmt.Errorf("similarity query failed: %w", err))
	}

	matches, err := s.store.Search(ctx, vector, uint64(limit), filter)
	if err != nil {
		return s.degraded(ctx, queryText, fmt.Errorf("similarity query failed: %w", err))
	}

	results := make([]domain.SimilarLogo, len(matches))
	for i, match := range matches {
		results[i] = domain.SimilarLogo{
			ID:       match.ID,
			Score:    ScoreFromDistance(float64(match.Distance)),
			Metadata: match.Metadata,
			SVGURL:   match.Metadata.SVGURL,
		}
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      len(results),
	}).Info(ctx, "similarity query completed")
	s.trail.Record(ctx, audit.Entry{
		Action:       audit.ActionRAGQueried,
		ResourceType: "query",
		Details:      queryText,
		Success:      true,
	})

	return SimilarityResponse{
		Success:   true,
		Results:   results,
		QueryUsed: queryText,
	}
}

// degraded builds a degraded response from a store or embedding failure.
// The failure is logged and audited but never propagated.
func (s *QueryService) degraded(ctx context.Context, queryText string, err error) SimilarityResponse {
	logger.CtxWarn(ctx, "similarity query degraded: %v", err)
	s.trail.Record(ctx, audit.Entry{
		Action:       audit.ActionRAGQueried,
		ResourceType: "query",
		Details:      queryText,
		Success:      false,
		Error:        err.Error(),
	})
	return SimilarityResponse{
		Success:  true,
		Results:  []domain.SimilarLogo{},
		Degraded: true,
		Error:    err.Error(),
	}
}

// Count returns the number of stored logos, or zero when the store is
// unconfigured or unreachable.
func (s *QueryService) Count(ctx context.Context) int {
	if !s.IsConfigured() {
		return 0
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "failed to count logos: %v", err)
		return 0
	}
	return int(count)
}

// ScoreFromDistance converts a non-negative L2 distance into a similarity
// score in (0, 1]: exactly 1 at zero distance, strictly decreasing as
// distance grows.
func ScoreFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
