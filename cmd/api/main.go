package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandkit/logodex/internal/api"
	"github.com/brandkit/logodex/internal/api/middleware"
	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/config"
	"github.com/brandkit/logodex/internal/logger"
	"github.com/brandkit/logodex/internal/render"
	"github.com/brandkit/logodex/internal/repository"
	"github.com/brandkit/logodex/internal/service"
	"github.com/brandkit/logodex/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database for audit and batch job history
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}
	auditRepo := repository.NewAuditRepository(db)
	jobRepo := repository.NewJobRepository(db)
	trail := audit.NewTrail(auditRepo)

	ctx := context.Background()

	// Initialize vector store. Missing configuration or an unreachable
	// store leaves similarity search in degraded mode instead of failing
	// startup.
	var vectorStore service.VectorStore
	var qdrantRepo *repository.QdrantRepository
	if cfg.Qdrant.Configured() {
		qdrantRepo, err = repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
			Host:            cfg.Qdrant.Host,
			Port:            cfg.Qdrant.Port,
			Collection:      cfg.Qdrant.Collection,
			APIKey:          cfg.Qdrant.APIKey,
			UseTLS:          cfg.Qdrant.UseTLS,
			VectorDimension: cfg.Embedding.Dimensions,
		})
		if err != nil {
			appLogger.Warnf("Failed to initialize vector store, similarity search degraded: %v", err)
		} else if err := qdrantRepo.EnsureCollection(ctx); err != nil {
			appLogger.Warnf("Failed to ensure vector collection, similarity search degraded: %v", err)
			qdrantRepo.Close()
			qdrantRepo = nil
		}
		if qdrantRepo != nil {
			defer qdrantRepo.Close()
			vectorStore = qdrantRepo
		}
	} else {
		appLogger.Warn("Vector store not configured, similarity search runs degraded")
	}

	// Initialize object storage (supports R2, S3, and S3-compatible
	// endpoints). Optional: without it ingested SVGs are not uploaded.
	var objectStorage storage.ObjectStorage
	if cfg.Storage.Configured() {
		objectStorage, err = storage.NewStorage(&storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			appLogger.Fatalf("Failed to ensure storage bucket: %v", err)
		}
	} else {
		appLogger.Warn("Object storage not configured, ingested SVGs will not be uploaded")
	}

	// Initialize services
	embeddingService := service.NewEmbeddingService(&service.EmbeddingConfig{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})
	visionService := service.NewVisionService(&service.VisionConfig{
		Provider: cfg.Vision.Provider,
		Model:    cfg.Vision.Model,
		APIKey:   cfg.Vision.APIKey,
		BaseURL:  cfg.Vision.BaseURL,
	})

	var embedder service.Embedder
	if embeddingService.IsConfigured() {
		embedder = embeddingService
	} else {
		appLogger.Warn("Embedding API key missing, similarity search runs degraded")
	}

	renderer := render.NewCommandRenderer(
		cfg.Renderer.Command,
		time.Duration(cfg.Renderer.TimeoutSeconds)*time.Second,
	)

	queryService := service.NewQueryService(
		vectorStore,
		embedder,
		trail,
		cfg.Query.DefaultLimit,
		cfg.Query.MaxLimit,
	)
	ingestService := service.NewIngestService(
		vectorStore,
		embeddingService,
		visionService,
		renderer,
		objectStorage,
		trail,
		service.RenderOptions{
			Width:  cfg.Renderer.Width,
			Height: cfg.Renderer.Height,
			Scale:  cfg.Renderer.Scale,
		},
	)
	batchService := service.NewBatchService(ingestService, service.NewJobStore(), jobRepo, trail)
	generateService := service.NewGenerateService(
		cfg.Generator.Command,
		time.Duration(cfg.Generator.TimeoutSeconds)*time.Second,
	)

	// Setup router
	router := api.SetupRouter(api.RouterConfig{
		Mode:        cfg.Server.Mode,
		AdminAPIKey: cfg.Admin.APIKey,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	}, queryService, ingestService, batchService, generateService, auditRepo, trail)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.Infof("Starting API server on port %d (mode=%s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
