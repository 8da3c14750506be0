package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pageza/whatsfordinner/backend/config"
)

// EmbeddingService is an OpenAI-compatible embeddings client producing
// fixed-dimension vectors
type EmbeddingService struct {
	apiKey    string
	apiURL    string
	model     string
	dimension int
	client    *http.Client
}

// NewEmbeddingService creates a new EmbeddingService instance
func NewEmbeddingService(cfg *config.Config) (*EmbeddingService, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
	}

	return &EmbeddingService{
		apiKey:    cfg.OpenAIAPIKey,
		apiURL:    cfg.OpenAIBaseURL + "/embeddings",
		model:     cfg.EmbeddingModel,
		dimension: cfg.EmbeddingDimension,
		client:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Dimension returns the fixed dimension of produced vectors
func (s *EmbeddingService) Dimension() int { return s.dimension }

type embeddingRequest struct {
	Input      string `json:"input"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for the given text. Provider-side
// failures surface as ErrEmbedding; a vector of the wrong length as
// ErrDimensionMismatch.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{
		Input:      text,
		Model:      s.model,
		Dimensions: s.dimension,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: API request failed with status %d: %s", ErrEmbedding, resp.StatusCode, string(body))
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrEmbedding, err)
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrEmbedding)
	}

	embedding := result.Data[0].Embedding
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: provider returned %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), s.dimension)
	}

	return embedding, nil
}
