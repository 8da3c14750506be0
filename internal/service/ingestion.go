package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/whatsfordinner/backend/internal/model"
)

// recipeIDNamespace fixes the uuid.NewSHA1 namespace so the same title
// always maps to the same id, making re-ingestion an upsert rather than
// a duplicate insert.
var recipeIDNamespace = uuid.MustParse("5f8a1d3e-9b42-4c6a-8f17-2d94e0c3b711")

// IngestUnit is one raw recipe document submitted for ingestion
type IngestUnit struct {
	Content   string
	SourceRef string
}

// IngestResult is the outcome for a single unit of a batch
type IngestResult struct {
	Recipe *model.Recipe
	Err    error
}

// IngestionService parses raw recipe text, computes embeddings and
// stores the result
type IngestionService struct {
	store    RecipeStore
	embedder Embedder
}

// NewIngestionService creates a new IngestionService instance
func NewIngestionService(store RecipeStore, embedder Embedder) *IngestionService {
	return &IngestionService{store: store, embedder: embedder}
}

// Ingest processes a single raw recipe document: parse, embed the
// canonical text, upsert. Parse failures surface as ErrMalformedRecipe,
// provider failures as ErrEmbedding; neither affects other units.
func (s *IngestionService) Ingest(ctx context.Context, content, sourceRef string) (*model.Recipe, error) {
	parsed, err := ParseRecipe(content)
	if err != nil {
		return nil, err
	}

	canonical := CanonicalText(parsed.Title, parsed.Ingredients, parsed.Instructions)
	embedding, err := s.embedder.Embed(ctx, canonical)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		ID:           uuid.NewSHA1(recipeIDNamespace, []byte(parsed.Title)),
		Title:        parsed.Title,
		Ingredients:  parsed.Ingredients,
		Instructions: parsed.Instructions,
		Embedding:    pgvector.NewVector(embedding),
		SourceRef:    sourceRef,
	}

	if err := s.store.Upsert(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to store recipe %q: %w", parsed.Title, err)
	}

	return recipe, nil
}

// IngestBatch processes each unit independently and returns one result
// per unit in submission order. A unit's failure never aborts the batch.
func (s *IngestionService) IngestBatch(ctx context.Context, units []IngestUnit) []IngestResult {
	results := make([]IngestResult, 0, len(units))
	for _, unit := range units {
		recipe, err := s.Ingest(ctx, unit.Content, unit.SourceRef)
		if err != nil {
			log.Printf("[Ingestion] failed to ingest %s: %v", unit.SourceRef, err)
		}
		results = append(results, IngestResult{Recipe: recipe, Err: err})
	}
	return results
}
