package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/whatsfordinner/backend/internal/store"
)

const recommendationCacheTTL = time.Hour

// RecommendationService orchestrates retrieval and generation: embed the
// ingredient query, fetch the nearest stored recipes and ask the
// completion provider for a grounded Markdown recipe. The store is never
// written on this path.
type RecommendationService struct {
	store       RecipeStore
	embedder    Embedder
	completion  CompletionProvider
	vision      *VisionService
	searchLimit int
	cache       *redis.Client // nil disables caching
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(
	recipeStore RecipeStore,
	embedder Embedder,
	completion CompletionProvider,
	vision *VisionService,
	searchLimit int,
	cache *redis.Client,
) *RecommendationService {
	return &RecommendationService{
		store:       recipeStore,
		embedder:    embedder,
		completion:  completion,
		vision:      vision,
		searchLimit: searchLimit,
		cache:       cache,
	}
}

// Retrieve embeds the ingredient list and returns up to k of the most
// similar stored recipes, most similar first. An empty ingredient list
// fails with ErrInvalidQuery; a store with fewer than k recipes returns
// what it has.
func (s *RecommendationService) Retrieve(ctx context.Context, ingredients []string, k int) ([]store.SearchResult, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: ingredients cannot be empty", ErrInvalidQuery)
	}
	if k <= 0 {
		k = s.searchLimit
	}

	queryText := CanonicalQueryText(ingredients)
	embedding, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	return s.store.Search(ctx, embedding, k)
}

// Generate asks the completion provider for a single Markdown recipe
// grounded on the retrieved recipes. With zero retrieved recipes the
// generation proceeds ungrounded from the ingredient list alone.
func (s *RecommendationService) Generate(ctx context.Context, ingredients []string, retrieved []store.SearchResult) (string, error) {
	queryText := CanonicalQueryText(ingredients)
	return s.completion.Complete(ctx, ragSystemPrompt, buildRAGUserPrompt(retrieved, queryText))
}

// Recommend runs the full retrieval-augmented pipeline for an
// ingredient list
func (s *RecommendationService) Recommend(ctx context.Context, ingredients []string) (string, error) {
	if len(ingredients) == 0 {
		return "", fmt.Errorf("%w: ingredients cannot be empty", ErrInvalidQuery)
	}

	if cached, ok := s.cacheGet(ctx, ingredients); ok {
		return cached, nil
	}

	retrieved, err := s.Retrieve(ctx, ingredients, s.searchLimit)
	if err != nil {
		return "", err
	}

	recipe, err := s.Generate(ctx, ingredients, retrieved)
	if err != nil {
		return "", err
	}

	s.cacheSet(ctx, ingredients, recipe)
	return recipe, nil
}

// RecommendFromImage extracts ingredients from the image and feeds them
// through the text pipeline. Returns the detected ingredients alongside
// the recommendation. Zero detected ingredients fails with
// ErrNoIngredientsDetected rather than proceeding to an unmatchable
// retrieval.
func (s *RecommendationService) RecommendFromImage(ctx context.Context, image []byte, mimeType string) ([]string, string, error) {
	ingredients, err := s.vision.ExtractIngredients(ctx, image, mimeType)
	if err != nil {
		return nil, "", err
	}

	if len(ingredients) == 0 {
		return nil, "", ErrNoIngredientsDetected
	}

	recipe, err := s.Recommend(ctx, ingredients)
	if err != nil {
		return ingredients, "", err
	}

	return ingredients, recipe, nil
}

// cacheGet returns a previously generated recommendation for the same
// ingredient list, if redis is configured and has one
func (s *RecommendationService) cacheGet(ctx context.Context, ingredients []string) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	cached, err := s.cache.Get(ctx, cacheKey(ingredients)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Recommendation] cache read failed: %v", err)
		}
		return "", false
	}
	return cached, true
}

func (s *RecommendationService) cacheSet(ctx context.Context, ingredients []string, recipe string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(ingredients), recipe, recommendationCacheTTL).Err(); err != nil {
		log.Printf("[Recommendation] cache write failed: %v", err)
	}
}

func cacheKey(ingredients []string) string {
	sum := sha256.Sum256([]byte(CanonicalQueryText(ingredients)))
	return "recipe:recommendation:" + hex.EncodeToString(sum[:])
}
