package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/config"
	"github.com/brandkit/logodex/internal/logger"
	"github.com/brandkit/logodex/internal/render"
	"github.com/brandkit/logodex/internal/repository"
	"github.com/brandkit/logodex/internal/service"
	"github.com/brandkit/logodex/internal/source"
	"github.com/brandkit/logodex/internal/source/directory"
	"github.com/brandkit/logodex/internal/source/manifest"
	"github.com/brandkit/logodex/internal/storage"
)

const fetchBatchSize = 50

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "logodex-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	sourceType := flag.String("source", "directory", "Logo source to ingest from (directory, manifest)")
	path := flag.String("path", "", "Path to the logo directory or manifest collection")
	limit := flag.Int("limit", 100, "Maximum number of logos to ingest")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *path == "" {
		appLogger.Fatal("-path is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithFields(logger.Fields{
		"source": *sourceType,
		"path":   *path,
		"limit":  *limit,
	}).Info("Starting logo ingestion")

	// Initialize database for audit records
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	trail := audit.NewTrail(repository.NewAuditRepository(db))

	// The CLI exists to fill the vector store, so an unconfigured store is
	// fatal here rather than degraded.
	if !cfg.Qdrant.Configured() {
		appLogger.Fatal("Vector store is not configured")
	}
	qdrantRepo, err := repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Embedding.Dimensions,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize vector store")
	}
	defer qdrantRepo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := qdrantRepo.EnsureCollection(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure vector collection")
	}

	// Initialize object storage when configured
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
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	}

	// Initialize services
	visionService := service.NewVisionService(&service.VisionConfig{
		Provider: cfg.Vision.Provider,
		Model:    cfg.Vision.Model,
		APIKey:   cfg.Vision.APIKey,
		BaseURL:  cfg.Vision.BaseURL,
	})
	embeddingService := service.NewEmbeddingService(&service.EmbeddingConfig{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})
	renderer := render.NewCommandRenderer(
		cfg.Renderer.Command,
		time.Duration(cfg.Renderer.TimeoutSeconds)*time.Second,
	)

	ingestService := service.NewIngestService(
		qdrantRepo,
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

	// Get data source
	var src source.Source
	switch *sourceType {
	case "directory":
		src = directory.NewAdapter(*path)
	case "manifest":
		src = manifest.NewAdapter(*path, "cli")
	default:
		appLogger.WithField("source", *sourceType).Fatal("Unknown source type")
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	total, ingested, failed := 0, 0, 0
	cursor := ""
	for total < *limit {
		items, nextCursor, err := src.FetchBatch(ctx, cursor, fetchBatchSize)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to fetch from source")
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if total >= *limit {
				break
			}
			if ctx.Err() != nil {
				appLogger.Info("Ingestion canceled")
				return
			}
			total++

			svgContent, err := os.ReadFile(item.LocalPath)
			if err != nil {
				failed++
				appLogger.WithError(err).WithField("path", item.LocalPath).Warn("Failed to read logo file")
				continue
			}

			result := ingestService.IngestLogo(ctx, service.IngestRequest{
				SVG:          string(svgContent),
				Name:         item.Name,
				LogoType:     item.LogoType,
				Theme:        item.Theme,
				Shape:        item.Shape,
				PrimaryColor: item.PrimaryColor,
				AccentColor:  item.AccentColor,
				Text:         item.Text,
			})
			if result.Success {
				ingested++
				appLogger.WithFields(logger.Fields{
					"logo_id": result.LogoID,
					"name":    item.Name,
				}).Info("Logo ingested")
			} else {
				failed++
				appLogger.WithFields(logger.Fields{
					"name":  item.Name,
					"error": result.Error,
				}).Warn("Logo ingestion failed")
			}
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	appLogger.WithFields(logger.Fields{
		"total":    total,
		"ingested": ingested,
		"failed":   failed,
	}).Info("Ingestion completed")
}
