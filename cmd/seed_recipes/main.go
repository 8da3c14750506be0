package main

import (
	"context"
	"flag"
	"log"

	"github.com/pageza/whatsfordinner/backend/config"
	"github.com/pageza/whatsfordinner/backend/internal/database"
	"github.com/pageza/whatsfordinner/backend/internal/service"
	"github.com/pageza/whatsfordinner/backend/internal/store"
)

// Bulk-ingests a recipe corpus through the real pipeline: parse, embed,
// upsert. Reads the same sources as the startup loader, so it can warm
// a database ahead of deploying the API.
func main() {
	dir := flag.String("dir", "", "directory of recipe .txt files (overrides CORPUS_DIR)")
	zipPath := flag.String("zip", "", "zip archive of recipe .txt files (overrides CORPUS_ZIP_PATH)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dir != "" {
		cfg.CorpusDir = *dir
	}
	if *zipPath != "" {
		cfg.CorpusZipPath = *zipPath
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	embedder, err := service.NewEmbeddingService(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}

	ctx := context.Background()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Printf("S3 corpus source unavailable: %v", err)
	}

	recipeStore := store.NewRecipeStore(db, cfg.EmbeddingDimension)
	ingestion := service.NewIngestionService(recipeStore, embedder)
	loader := service.NewCorpusLoader(ingestion, cfg, s3cfg)

	succeeded, failed := loader.Load(ctx)
	log.Printf("Seeding finished: %d succeeded, %d failed", succeeded, failed)
}
