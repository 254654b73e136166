package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/repository"
)

func TestScoreFromDistance(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1.0},
		{1, 0.5},
		{3, 0.25},
		{9, 0.1},
	}
	for _, tt := range tests {
		got := ScoreFromDistance(tt.distance)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScoreFromDistance(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}

func TestScoreFromDistanceMonotonic(t *testing.T) {
	prev := ScoreFromDistance(0)
	for d := 0.5; d < 20; d += 0.5 {
		score := ScoreFromDistance(d)
		if score >= prev {
			t.Fatalf("score not strictly decreasing at distance %v: %v >= %v", d, score, prev)
		}
		if score <= 0 || score > 1 {
			t.Fatalf("score out of range at distance %v: %v", d, score)
		}
		prev = score
	}
}

func TestFindSimilarUnconfigured(t *testing.T) {
	svc := NewQueryService(nil, nil, nil, 0, 0)

	resp := svc.FindSimilar(context.Background(), SimilarityRequest{Query: "minimal tech logo"})

	if !resp.Success {
		t.Error("degraded response should still report success")
	}
	if !resp.Degraded {
		t.Error("expected degraded response when store is unconfigured")
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty results, got %d", len(resp.Results))
	}
	if resp.Error == "" {
		t.Error("expected degraded response to carry an error message")
	}
}

func TestFindSimilarConvertsDistances(t *testing.T) {
	store := newFakeVectorStore()
	store.searchResults = []repository.LogoMatch{
		{
			ID:       "logo-1",
			Distance: 0,
			Metadata: domain.LogoMetadata{LogoID: "logo-1", SVGURL: "https://cdn.example.com/logos/logo-1.svg"},
		},
		{
			ID:       "logo-2",
			Distance: 1,
			Metadata: domain.LogoMetadata{LogoID: "logo-2"},
		},
	}
	svc := NewQueryService(store, &fakeEmbedder{}, nil, 0, 0)

	resp := svc.FindSimilar(context.Background(), SimilarityRequest{Query: "geometric mark"})

	if resp.Degraded {
		t.Fatalf("unexpected degraded response: %s", resp.Error)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Score != 1.0 {
		t.Errorf("zero distance should score 1.0, got %v", resp.Results[0].Score)
	}
	if resp.Results[1].Score != 0.5 {
		t.Errorf("distance 1 should score 0.5, got %v", resp.Results[1].Score)
	}
	if resp.Results[0].SVGURL != "https://cdn.example.com/logos/logo-1.svg" {
		t.Errorf("svg url not propagated: %q", resp.Results[0].SVGURL)
	}
	if resp.QueryUsed != "geometric mark" {
		t.Errorf("QueryUsed = %q, want the caller's query", resp.QueryUsed)
	}
}

func TestFindSimilarSynthesizesQuery(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &fakeEmbedder{}
	svc := NewQueryService(store, embedder, nil, 0, 0)

	resp := svc.FindSimilar(context.Background(), SimilarityRequest{
		LogoType: "wordmark",
		Theme:    "modern",
		Text:     "ACME",
	})

	if resp.Degraded {
		t.Fatalf("unexpected degraded response: %s", resp.Error)
	}
	if resp.QueryUsed == "" {
		t.Fatal("expected a synthesized query")
	}
	if len(embedder.queries) != 1 || embedder.queries[0] != resp.QueryUsed {
		t.Errorf("embedder saw %v, response reports %q", embedder.queries, resp.QueryUsed)
	}
}

func TestFindSimilarBuildsFilter(t *testing.T) {
	store := newFakeVectorStore()
	svc := NewQueryService(store, &fakeEmbedder{}, nil, 0, 0)

	svc.FindSimilar(context.Background(), SimilarityRequest{
		Query:    "bold emblem",
		LogoType: "emblem",
		Theme:    "vintage",
	})

	if store.lastFilter == nil {
		t.Fatal("expected a metadata filter from the structured facets")
	}
	if len(store.lastFilter.Conditions) != 2 {
		t.Fatalf("expected 2 filter conditions, got %d", len(store.lastFilter.Conditions))
	}

	svc.FindSimilar(context.Background(), SimilarityRequest{Query: "anything"})
	if store.lastFilter != nil {
		t.Error("expected no filter when no facets are set")
	}
}

func TestFindSimilarLimits(t *testing.T) {
	store := newFakeVectorStore()
	svc := NewQueryService(store, &fakeEmbedder{}, nil, 5, 50)

	tests := []struct {
		name     string
		nResults int
		want     uint64
	}{
		{"default when unset", 0, 5},
		{"caller value", 12, 12},
		{"clamped to max", 500, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.FindSimilar(context.Background(), SimilarityRequest{Query: "q", NResults: tt.nResults})
			if store.lastLimit != tt.want {
				t.Errorf("search limit = %d, want %d", store.lastLimit, tt.want)
			}
		})
	}
}

func TestFindSimilarDegradesOnSearchError(t *testing.T) {
	store := newFakeVectorStore()
	store.searchErr = errors.New("connection refused")
	svc := NewQueryService(store, &fakeEmbedder{}, nil, 0, 0)

	resp := svc.FindSimilar(context.Background(), SimilarityRequest{Query: "q"})

	if !resp.Success || !resp.Degraded {
		t.Errorf("store failure should degrade, got success=%v degraded=%v", resp.Success, resp.Degraded)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty results, got %d", len(resp.Results))
	}
	if resp.Error == "" {
		t.Error("expected error message in degraded response")
	}
}

func TestFindSimilarDegradesOnEmbeddingError(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &fakeEmbedder{err: errors.New("rate limited")}
	svc := NewQueryService(store, embedder, nil, 0, 0)

	resp := svc.FindSimilar(context.Background(), SimilarityRequest{Query: "q"})

	if !resp.Success || !resp.Degraded {
		t.Errorf("embedding failure should degrade, got success=%v degraded=%v", resp.Success, resp.Degraded)
	}
}

func TestCount(t *testing.T) {
	store := newFakeVectorStore()
	store.points["a"] = repository.LogoPoint{ID: "a"}
	store.points["b"] = repository.LogoPoint{ID: "b"}
	svc := NewQueryService(store, &fakeEmbedder{}, nil, 0, 0)

	if got := svc.Count(context.Background()); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}

	unconfigured := NewQueryService(nil, nil, nil, 0, 0)
	if got := unconfigured.Count(context.Background()); got != 0 {
		t.Errorf("unconfigured Count = %d, want 0", got)
	}
}
