package repository

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/querygen"
)

const (
	defaultVectorDimension = 1024
)

// QdrantConnectionConfig holds configuration for Qdrant connection
type QdrantConnectionConfig struct {
	Host            string
	Port            int
	Collection      string
	APIKey          string // Qdrant Cloud API Key (enables TLS automatically)
	UseTLS          bool   // Explicitly enable TLS without API Key
	VectorDimension int
}

// apiKeyInterceptor creates a unary interceptor that adds API key to metadata
func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// QdrantRepository stores logo embeddings and their metadata payloads in a
// Qdrant collection. The collection uses Euclidean distance, so search
// scores are raw L2 distances (lower means more similar); callers convert
// distance to a similarity score.
type QdrantRepository struct {
	conn            *grpc.ClientConn
	pointsClient    pb.PointsClient
	collectClient   pb.CollectionsClient
	collectionName  string
	vectorDimension int
}

// NewQdrantRepository creates a new QdrantRepository
// Supports both local Qdrant (insecure) and Qdrant Cloud (TLS + API Key)
func NewQdrantRepository(cfg *QdrantConnectionConfig) (*QdrantRepository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	vectorDimension := cfg.VectorDimension
	if vectorDimension <= 0 {
		vectorDimension = defaultVectorDimension
	}

	// Build gRPC dial options
	var opts []grpc.DialOption

	// Determine if TLS should be used
	// TLS is enabled if: APIKey is set OR UseTLS is explicitly true
	useTLS := cfg.UseTLS || cfg.APIKey != ""

	if useTLS {
		// Use TLS with system root certificates (TLS 1.3 minimum for Qdrant Cloud)
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
		creds := credentials.NewTLS(tlsConfig)
		opts = append(opts, grpc.WithTransportCredentials(creds))

		// Add API Key authentication if provided (using unary interceptor)
		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		// Local mode: no TLS, no authentication
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantRepository{
		conn:            conn,
		pointsClient:    pb.NewPointsClient(conn),
		collectClient:   pb.NewCollectionsClient(conn),
		collectionName:  cfg.Collection,
		vectorDimension: vectorDimension,
	}, nil
}

// Close closes the gRPC connection
func (r *QdrantRepository) Close() error {
	return r.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist. The
// collection is created with Euclidean distance; an existing collection
// with a mismatched vector size is an error.
func (r *QdrantRepository) EnsureCollection(ctx context.Context) error {
	// Check if collection exists
	info, err := r.collectClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collectionName,
	})
	if err == nil {
		if size, ok := collectionVectorSize(info.GetResult()); ok {
			if size != uint64(r.vectorDimension) {
				return fmt.Errorf("collection %s has vector size %d, expected %d", r.collectionName, size, r.vectorDimension)
			}
		}
		return nil // Collection exists
	}

	// Create collection
	_, err = r.collectClient.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(r.vectorDimension),
					Distance: pb.Distance_Euclid,
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:                 optionalUint64(16),
			EfConstruct:       optionalUint64(128),
			FullScanThreshold: optionalUint64(10000),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

func optionalUint64(v uint64) *uint64 {
	return &v
}

func collectionVectorSize(info *pb.CollectionInfo) (uint64, bool) {
	if info == nil {
		return 0, false
	}

	config := info.GetConfig()
	if config == nil {
		return 0, false
	}

	params := config.GetParams()
	if params == nil {
		return 0, false
	}

	vectors := params.GetVectorsConfig()
	if vectors == nil {
		return 0, false
	}

	if single := vectors.GetParams(); single != nil {
		if size := single.GetSize(); size > 0 {
			return size, true
		}
	}

	if paramsMap := vectors.GetParamsMap(); paramsMap != nil {
		for _, vectorParams := range paramsMap.GetMap() {
			if vectorParams == nil {
				continue
			}
			if size := vectorParams.GetSize(); size > 0 {
				return size, true
			}
		}
	}

	return 0, false
}

// LogoPoint pairs a stored logo's metadata with the document text that was
// embedded for it.
type LogoPoint struct {
	ID       string
	Metadata domain.LogoMetadata
	Document string
}

// LogoMatch is a nearest-neighbor search hit. Distance is the raw L2
// distance reported by the store.
type LogoMatch struct {
	ID       string
	Distance float32
	Metadata domain.LogoMetadata
	Document string
}

// Upsert inserts or updates a logo point with its embedding and payload.
func (r *QdrantRepository) Upsert(ctx context.Context, point LogoPoint, vector []float32) error {
	// Parse UUID
	uid, err := uuid.Parse(point.ID)
	if err != nil {
		return fmt.Errorf("invalid point ID: %w", err)
	}

	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: uid.String(),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: vector,
					},
				},
			},
			Payload: logoPayload(point.Metadata, point.Document),
		},
	}

	_, err = r.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// logoPayload flattens logo metadata plus the embedded document into a
// Qdrant payload map. Fields are stored flat so they are filterable.
func logoPayload(meta domain.LogoMetadata, document string) map[string]*pb.Value {
	return map[string]*pb.Value{
		"logo_id":       stringValue(meta.LogoID),
		"name":          stringValue(meta.Name),
		"description":   stringValue(meta.Description),
		"logo_type":     stringValue(meta.LogoType),
		"theme":         stringValue(meta.Theme),
		"shape":         stringValue(meta.Shape),
		"primary_color": stringValue(meta.PrimaryColor),
		"accent_color":  stringValue(meta.AccentColor),
		"text":          stringValue(meta.Text),
		"svg_url":       stringValue(meta.SVGURL),
		"created_at":    stringValue(meta.CreatedAt),
		"document":      stringValue(document),
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func parseLogoPayload(payload map[string]*pb.Value) (domain.LogoMetadata, string) {
	meta := domain.LogoMetadata{}
	if payload == nil {
		return meta, ""
	}

	get := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}

	meta.LogoID = get("logo_id")
	meta.Name = get("name")
	meta.Description = get("description")
	meta.LogoType = get("logo_type")
	meta.Theme = get("theme")
	meta.Shape = get("shape")
	meta.PrimaryColor = get("primary_color")
	meta.AccentColor = get("accent_color")
	meta.Text = get("text")
	meta.SVGURL = get("svg_url")
	meta.CreatedAt = get("created_at")

	return meta, get("document")
}

// Search performs a nearest-neighbor search and returns matches ordered by
// ascending distance.
func (r *QdrantRepository) Search(ctx context.Context, vector []float32, limit uint64, filter *querygen.Filter) ([]LogoMatch, error) {
	req := &pb.SearchPoints{
		CollectionName: r.collectionName,
		Vector:         vector,
		Limit:          limit,
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	}

	// Apply filters if provided
	if filter != nil {
		req.Filter = toQdrantFilter(filter)
	}

	resp, err := r.pointsClient.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]LogoMatch, len(resp.Result))
	for i, scored := range resp.Result {
		meta, document := parseLogoPayload(scored.Payload)
		results[i] = LogoMatch{
			ID:       scored.Id.GetUuid(),
			Distance: scored.Score,
			Metadata: meta,
			Document: document,
		}
	}

	return results, nil
}

// toQdrantFilter translates a conjunction of equality conditions into a
// Qdrant must-filter of keyword matches.
func toQdrantFilter(filter *querygen.Filter) *pb.Filter {
	if filter == nil || len(filter.Conditions) == 0 {
		return nil
	}

	conditions := make([]*pb.Condition, 0, len(filter.Conditions))
	for _, cond := range filter.Conditions {
		conditions = append(conditions, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: cond.Field,
					Match: &pb.Match{
						MatchValue: &pb.Match_Keyword{Keyword: cond.Value},
					},
				},
			},
		})
	}

	return &pb.Filter{
		Must: conditions,
	}
}

// Get retrieves a single logo point by ID. Returns nil without error when
// the point does not exist.
func (r *QdrantRepository) Get(ctx context.Context, pointID string) (*LogoPoint, error) {
	uid, err := uuid.Parse(pointID)
	if err != nil {
		return nil, fmt.Errorf("invalid point ID: %w", err)
	}

	resp, err := r.pointsClient.Get(ctx, &pb.GetPoints{
		CollectionName: r.collectionName,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}
	if len(resp.Result) == 0 {
		return nil, nil
	}

	retrieved := resp.Result[0]
	meta, document := parseLogoPayload(retrieved.Payload)
	return &LogoPoint{
		ID:       retrieved.Id.GetUuid(),
		Metadata: meta,
		Document: document,
	}, nil
}

// SetMetadata overwrites a point's payload without touching its vector.
// Used for metadata-only updates where the description (and therefore the
// embedding) is unchanged.
func (r *QdrantRepository) SetMetadata(ctx context.Context, pointID string, meta domain.LogoMetadata, document string) error {
	uid, err := uuid.Parse(pointID)
	if err != nil {
		return fmt.Errorf("invalid point ID: %w", err)
	}

	_, err = r.pointsClient.OverwritePayload(ctx, &pb.SetPayloadPoints{
		CollectionName: r.collectionName,
		Payload:        logoPayload(meta, document),
		PointsSelector: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set payload: %w", err)
	}

	return nil
}

// Delete deletes a point by ID
func (r *QdrantRepository) Delete(ctx context.Context, pointID string) error {
	uid, err := uuid.Parse(pointID)
	if err != nil {
		return fmt.Errorf("invalid point ID: %w", err)
	}

	_, err = r.pointsClient.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collectionName,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}

	return nil
}

// Count returns the exact number of points in the collection.
func (r *QdrantRepository) Count(ctx context.Context) (uint64, error) {
	exact := true
	resp, err := r.pointsClient.Count(ctx, &pb.CountPoints{
		CollectionName: r.collectionName,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return resp.GetResult().GetCount(), nil
}

// List pages through stored logo points. The offset token is the point ID
// to resume from; an empty token starts from the beginning. Returns the
// page and the token for the next page, empty when exhausted.
func (r *QdrantRepository) List(ctx context.Context, limit uint32, offsetToken string, filter *querygen.Filter) ([]LogoPoint, string, error) {
	req := &pb.ScrollPoints{
		CollectionName: r.collectionName,
		Limit:          &limit,
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	}
	if filter != nil {
		req.Filter = toQdrantFilter(filter)
	}
	if offsetToken != "" {
		uid, err := uuid.Parse(offsetToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid offset token: %w", err)
		}
		req.Offset = &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()}}
	}

	resp, err := r.pointsClient.Scroll(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list points: %w", err)
	}

	points := make([]LogoPoint, len(resp.Result))
	for i, retrieved := range resp.Result {
		meta, document := parseLogoPayload(retrieved.Payload)
		points[i] = LogoPoint{
			ID:       retrieved.Id.GetUuid(),
			Metadata: meta,
			Document: document,
		}
	}

	next := ""
	if resp.NextPageOffset != nil {
		next = resp.NextPageOffset.GetUuid()
	}

	return points, next, nil
}
