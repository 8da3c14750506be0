package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/whatsfordinner/backend/config"
	"github.com/pageza/whatsfordinner/backend/internal/database"
	"github.com/pageza/whatsfordinner/backend/internal/server"
	"github.com/pageza/whatsfordinner/backend/internal/service"
	"github.com/pageza/whatsfordinner/backend/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Redis only backs caching and rate limiting; run without it
		log.Printf("Redis unavailable, continuing without caching: %v", err)
		redisClient = nil
	}

	recipeStore := store.NewRecipeStore(db, cfg.EmbeddingDimension)

	embedder, err := service.NewEmbeddingService(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}
	completion, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}
	visionClient, err := service.NewVisionClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create vision client: %v", err)
	}

	ingestion := service.NewIngestionService(recipeStore, embedder)
	recommendations := service.NewRecommendationService(
		recipeStore, embedder, completion,
		service.NewVisionService(visionClient),
		cfg.SearchLimit, redisClient,
	)

	// The startup batch finishes before the listener opens, so early
	// requests see a fully loaded corpus
	if cfg.LoadStartupData {
		ctx := context.Background()
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Printf("S3 corpus source unavailable: %v", err)
		}
		loader := service.NewCorpusLoader(ingestion, cfg, s3cfg)
		loader.Load(ctx)
	} else {
		log.Println("Startup data loading disabled by configuration")
	}

	srv := server.New(cfg, recipeStore, ingestion, recommendations, redisClient)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s...", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
