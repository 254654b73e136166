package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/querygen"
	"github.com/brandkit/logodex/internal/repository"
)

// fakeVectorStore is an in-memory VectorStore for tests. Insertion order is
// preserved so List pagination is deterministic.
type fakeVectorStore struct {
	mu      sync.Mutex
	points  map[string]repository.LogoPoint
	vectors map[string][]float32
	order   []string

	searchResults []repository.LogoMatch
	lastFilter    *querygen.Filter
	lastLimit     uint64

	upsertErr error
	searchErr error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{
		points:  make(map[string]repository.LogoPoint),
		vectors: make(map[string][]float32),
	}
}

func (f *fakeVectorStore) Upsert(ctx context.Context, point repository.LogoPoint, vector []float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.points[point.ID]; !exists {
		f.order = append(f.order, point.ID)
	}
	f.points[point.ID] = point
	f.vectors[point.ID] = vector
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, vector []float32, limit uint64, filter *querygen.Filter) ([]repository.LogoMatch, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.lastFilter = filter
	f.lastLimit = limit
	return f.searchResults, nil
}

func (f *fakeVectorStore) Get(ctx context.Context, pointID string) (*repository.LogoPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	point, ok := f.points[pointID]
	if !ok {
		return nil, nil
	}
	return &point, nil
}

func (f *fakeVectorStore) SetMetadata(ctx context.Context, pointID string, meta domain.LogoMetadata, document string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	point, ok := f.points[pointID]
	if !ok {
		return fmt.Errorf("point %s not found", pointID)
	}
	point.Metadata = meta
	point.Document = document
	f.points[pointID] = point
	return nil
}

func (f *fakeVectorStore) Delete(ctx context.Context, pointID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.points, pointID)
	delete(f.vectors, pointID)
	for i, id := range f.order {
		if id == pointID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeVectorStore) Count(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.points)), nil
}

func (f *fakeVectorStore) List(ctx context.Context, limit uint32, offsetToken string, filter *querygen.Filter) ([]repository.LogoPoint, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := 0
	if offsetToken != "" {
		for i, id := range f.order {
			if id == offsetToken {
				start = i
				break
			}
		}
	}

	var out []repository.LogoPoint
	next := ""
	for i := start; i < len(f.order); i++ {
		if len(out) == int(limit) {
			next = f.order[i]
			break
		}
		point := f.points[f.order[i]]
		if !matchesFilter(point, filter) {
			continue
		}
		out = append(out, point)
	}
	return out, next, nil
}

func matchesFilter(point repository.LogoPoint, filter *querygen.Filter) bool {
	if filter == nil {
		return true
	}
	for _, cond := range filter.Conditions {
		var got string
		switch cond.Field {
		case "logo_type":
			got = point.Metadata.LogoType
		case "theme":
			got = point.Metadata.Theme
		case "shape":
			got = point.Metadata.Shape
		}
		if got != cond.Value {
			return false
		}
	}
	return true
}

// fakeEmbedder returns a fixed vector and records the texts it embedded.
type fakeEmbedder struct {
	mu      sync.Mutex
	texts   []string
	queries []string
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeDescriber returns a canned description.
type fakeDescriber struct {
	description string
	err         error
}

func (f *fakeDescriber) DescribeLogo(ctx context.Context, pngData []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.description, nil
}

// fakeRenderer returns canned PNG bytes without shelling out. It records
// the last SVG it was handed so tests can inspect what reached the
// rasterizer.
type fakeRenderer struct {
	png     []byte
	err     error
	lastSVG string
}

func (f *fakeRenderer) Render(ctx context.Context, svgContent string, width, height, scale int) ([]byte, error) {
	f.lastSVG = svgContent
	if f.err != nil {
		return nil, f.err
	}
	return f.png, nil
}
