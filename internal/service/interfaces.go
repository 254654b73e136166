package service

import (
	"context"

	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/querygen"
	"github.com/brandkit/logodex/internal/repository"
)

// VectorStore abstracts the logo vector store. *repository.QdrantRepository
// is the production implementation; tests substitute in-memory fakes.
type VectorStore interface {
	Upsert(ctx context.Context, point repository.LogoPoint, vector []float32) error
	Search(ctx context.Context, vector []float32, limit uint64, filter *querygen.Filter) ([]repository.LogoMatch, error)
	Get(ctx context.Context, pointID string) (*repository.LogoPoint, error)
	SetMetadata(ctx context.Context, pointID string, meta domain.LogoMetadata, document string) error
	Delete(ctx context.Context, pointID string) error
	Count(ctx context.Context) (uint64, error)
	List(ctx context.Context, limit uint32, offsetToken string, filter *querygen.Filter) ([]repository.LogoPoint, string, error)
}

// Embedder produces embedding vectors for documents and queries.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Describer generates a text description for a rendered logo image.
type Describer interface {
	DescribeLogo(ctx context.Context, pngData []byte) (string, error)
}
