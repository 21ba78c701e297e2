package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/hashbeam/hashbeam/internal/adapter/handler"
	infra "github.com/hashbeam/hashbeam/internal/infrastructure/repository"
	"github.com/hashbeam/hashbeam/internal/usecase"
	"github.com/hashbeam/hashbeam/pkg/ai"
	"github.com/hashbeam/hashbeam/pkg/config"
	"github.com/hashbeam/hashbeam/pkg/metrics"
)

const version = "1.0.0"

func main() {
	configPath := config.ResolvePath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	manager := config.NewManager(cfg, configPath)
	if watcher, err := config.NewWatcher(manager); err != nil {
		log.Printf("Config watcher disabled: %v", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	metadataRepo, err := infra.NewSQLiteMetadataRepository(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to initialize metadata database: ", err)
	}
	defer metadataRepo.Close()

	store, err := infra.NewS3ObjectStore(infra.S3Options{
		Endpoint:       cfg.S3.Endpoint,
		Region:         cfg.S3.Region,
		AccessKey:      cfg.S3.AccessKey,
		SecretKey:      cfg.S3.SecretKey,
		Bucket:         cfg.S3.Bucket,
		ForcePathStyle: cfg.S3.ForcePathStyle,
	})
	if err != nil {
		log.Fatal("Failed to initialize object store client: ", err)
	}

	var tagger usecase.Tagger
	if cfg.AI.Enabled {
		tagger = ai.NewTagger(cfg.AI.Endpoint, cfg.AI.APIKey, cfg.AI.Model)
		log.Printf("Tag enrichment enabled via %s", cfg.AI.Endpoint)
	}

	uploadUC := usecase.NewUploadUseCase(store, metadataRepo, manager, cfg.S3.PublicBaseURL, tagger)
	resolveUC := usecase.NewResolveUseCase(metadataRepo, store, cfg.Presign.TTL, config.DefaultRecentLimit)
	healthUC := usecase.NewHealthUseCase(metadataRepo, store, version)
	collector := metrics.NewCollector()

	router := gin.Default()
	router.Use(handler.RequestID(), collector.Middleware())

	handler.NewUploadHandler(uploadUC, collector).RegisterRoutes(router)
	handler.NewResolveHandler(resolveUC, collector).RegisterRoutes(router)
	handler.NewHealthHandler(healthUC).RegisterRoutes(router)
	router.GET("/api/stats", collector.StatsHandler())

	log.Printf("Starting server on port %s (bucket %s)", cfg.Server.Port, cfg.S3.Bucket)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
