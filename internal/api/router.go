package api

import (
	"github.com/gin-gonic/gin"

	"github.com/brandkit/logodex/internal/api/handler"
	"github.com/brandkit/logodex/internal/api/middleware"
	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/repository"
	"github.com/brandkit/logodex/internal/service"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Mode        string
	AdminAPIKey string
	CORS        middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	cfg RouterConfig,
	queryService *service.QueryService,
	ingestService *service.IngestService,
	batchService *service.BatchService,
	generateService *service.GenerateService,
	auditRepo *repository.AuditRepository,
	trail *audit.Trail,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	ragHandler := handler.NewRAGHandler(queryService)
	generateHandler := handler.NewGenerateHandler(generateService)
	adminHandler := handler.NewAdminHandler(ingestService, batchService, auditRepo, trail)
	logoHandler := handler.NewLogoHandler(ingestService)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Similarity search (public surface)
	rag := r.Group("/rag")
	{
		rag.GET("/status", ragHandler.Status)
		rag.POST("/similar", ragHandler.FindSimilar)
		rag.GET("/similar", ragHandler.FindSimilarGet)
	}

	// Logo generation
	r.POST("/generate", generateHandler.Generate)

	// Admin surface, protected by the shared API key
	admin := r.Group("/admin", middleware.AdminAuth(cfg.AdminAPIKey))
	{
		admin.POST("/ingest", adminHandler.Ingest)
		admin.POST("/ingest/batch", adminHandler.CreateBatch)
		admin.GET("/ingest/batch", adminHandler.ListBatches)
		admin.GET("/ingest/batch/:id", adminHandler.GetBatchStatus)
		admin.GET("/ingest/history", adminHandler.ListBatchHistory)
		admin.GET("/audit", adminHandler.ListAuditLog)

		admin.POST("/sanitize", adminHandler.Sanitize)
		admin.POST("/validate", adminHandler.Validate)

		logos := admin.Group("/logos")
		{
			logos.GET("", logoHandler.List)
			logos.GET("/:id", logoHandler.Get)
			logos.PATCH("/:id", logoHandler.Update)
			logos.DELETE("/:id", logoHandler.Delete)
			logos.POST("/delete-batch", logoHandler.DeleteBatch)
		}
	}

	return r
}
