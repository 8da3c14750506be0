package service

import (
	"errors"

	"github.com/pageza/whatsfordinner/backend/internal/store"
)

// Every failure in the recommendation and ingestion paths wraps exactly
// one of these sentinels, so callers can map it to a client or server
// fault with errors.Is.
var (
	// ErrInvalidQuery indicates an empty or malformed query from the caller.
	ErrInvalidQuery = store.ErrInvalidQuery

	// ErrDimensionMismatch indicates an embedding whose length does not
	// match the configured dimension. Configuration drift; should not
	// occur in normal operation.
	ErrDimensionMismatch = store.ErrDimensionMismatch

	// ErrMalformedRecipe indicates recipe text that could not be parsed
	// into title, ingredients and instructions.
	ErrMalformedRecipe = errors.New("malformed recipe")

	// ErrEmbedding indicates an embedding provider failure.
	ErrEmbedding = errors.New("embedding provider failure")

	// ErrGeneration indicates a chat-completion provider failure.
	ErrGeneration = errors.New("generation provider failure")

	// ErrVision indicates an image-understanding provider failure.
	ErrVision = errors.New("vision provider failure")

	// ErrUnsupportedImageFormat indicates an image type the vision path
	// rejects before any provider call.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")

	// ErrNoIngredientsDetected indicates the vision provider found no
	// ingredients in an image.
	ErrNoIngredientsDetected = errors.New("no ingredients detected in image")
)
