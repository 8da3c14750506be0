package service

import (
	"context"

	"github.com/pageza/whatsfordinner/backend/internal/model"
	"github.com/pageza/whatsfordinner/backend/internal/store"
)

// Embedder converts text into a fixed-length vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// CompletionProvider performs a single chat completion
type CompletionProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// VisionProvider describes the visible content of an image
type VisionProvider interface {
	DescribeImage(ctx context.Context, image []byte, mimeType string, prompt string) (string, error)
}

// RecipeStore is the document store contract the pipelines depend on
type RecipeStore interface {
	Upsert(ctx context.Context, recipe *model.Recipe) error
	Search(ctx context.Context, embedding []float32, k int) ([]store.SearchResult, error)
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	Count(ctx context.Context) (int64, error)
}
