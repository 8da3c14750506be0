package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/whatsfordinner/backend/internal/model"
)

var (
	// ErrInvalidQuery is returned for a non-positive k or an otherwise
	// unusable query.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDimensionMismatch is returned when a vector does not match the
	// store's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// SearchResult pairs a recipe with its cosine similarity to the query
type SearchResult struct {
	Recipe model.Recipe
	Score  float64
}

// RecipeStore persists recipes and answers nearest-neighbor queries.
// On postgres it searches with the pgvector cosine operator; on other
// dialects it falls back to an in-process cosine scan.
type RecipeStore struct {
	db        *gorm.DB
	dimension int
}

// NewRecipeStore creates a store over the given database connection.
// The dimension is fixed for the store's lifetime.
func NewRecipeStore(db *gorm.DB, dimension int) *RecipeStore {
	return &RecipeStore{db: db, dimension: dimension}
}

// Dimension returns the configured embedding dimension
func (s *RecipeStore) Dimension() int { return s.dimension }

// Upsert inserts or replaces a recipe keyed by id
func (s *RecipeStore) Upsert(ctx context.Context, recipe *model.Recipe) error {
	if len(recipe.Embedding.Slice()) != s.dimension {
		return fmt.Errorf("%w: recipe %q has %d dimensions, store expects %d",
			ErrDimensionMismatch, recipe.Title, len(recipe.Embedding.Slice()), s.dimension)
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "ingredients", "instructions", "embedding", "source_ref", "updated_at",
		}),
	}).Create(recipe).Error
}

// Search returns the k recipes closest to the query embedding, ordered
// by non-increasing similarity. Ties break by creation time, then id.
// An empty store yields an empty slice, not an error.
func (s *RecipeStore) Search(ctx context.Context, embedding []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidQuery, k)
	}
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			ErrDimensionMismatch, len(embedding), s.dimension)
	}

	if s.db.Dialector.Name() == "postgres" {
		return s.searchPgvector(ctx, embedding, k)
	}
	return s.searchScan(ctx, embedding, k)
}

// searchPgvector uses the cosine distance operator and lets the index
// do the ordering
func (s *RecipeStore) searchPgvector(ctx context.Context, embedding []float32, k int) ([]SearchResult, error) {
	vec := pgvector.NewVector(embedding)

	rows := []struct {
		model.Recipe
		Distance float64
	}{}

	err := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("*, embedding <=> ? AS distance", vec).
		Order("distance ASC, created_at ASC, id ASC").
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, SearchResult{Recipe: row.Recipe, Score: 1 - row.Distance})
	}
	return results, nil
}

// searchScan loads all rows in insertion order and ranks them in
// process. Fine for tests and small corpora; postgres deployments never
// take this path.
func (s *RecipeStore) searchScan(ctx context.Context, embedding []float32, k int) ([]SearchResult, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("scan search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, SearchResult{
			Recipe: r,
			Score:  cosineSimilarity(embedding, r.Embedding.Slice()),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// GetByID fetches a single recipe
func (s *RecipeStore) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Count returns the number of stored recipes
func (s *RecipeStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
