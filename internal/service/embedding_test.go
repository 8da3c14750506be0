package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/whatsfordinner/backend/config"
)

func newEmbeddingService(t *testing.T, baseURL string, dimension int) *EmbeddingService {
	t.Helper()
	svc, err := NewEmbeddingService(&config.Config{
		OpenAIAPIKey:       "test-key",
		OpenAIBaseURL:      baseURL,
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: dimension,
	})
	require.NoError(t, err)
	return svc
}

func embeddingReply(t *testing.T, w http.ResponseWriter, vector []float32) {
	t.Helper()
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"data": []map[string]interface{}{{"embedding": vector}},
	})
	require.NoError(t, err)
}

func TestEmbeddingService_Embed(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the provider vector", func(t *testing.T) {
		var gotReq embeddingRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			embeddingReply(t, w, []float32{0.1, 0.2, 0.3})
		}))
		defer srv.Close()

		svc := newEmbeddingService(t, srv.URL, 3)
		vec, err := svc.Embed(ctx, "Title: Soup")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
		assert.Equal(t, "Title: Soup", gotReq.Input)
		assert.Equal(t, 3, gotReq.Dimensions)
	})

	t.Run("should fail on a vector of the wrong length", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			embeddingReply(t, w, []float32{0.1, 0.2})
		}))
		defer srv.Close()

		svc := newEmbeddingService(t, srv.URL, 3)
		_, err := svc.Embed(ctx, "text")
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("should fail on a provider error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		svc := newEmbeddingService(t, srv.URL, 3)
		_, err := svc.Embed(ctx, "text")
		assert.ErrorIs(t, err, ErrEmbedding)
	})

	t.Run("should fail on an empty data array", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": []}`))
		}))
		defer srv.Close()

		svc := newEmbeddingService(t, srv.URL, 3)
		_, err := svc.Embed(ctx, "text")
		assert.ErrorIs(t, err, ErrEmbedding)
	})

	t.Run("should fail on an unreachable provider", func(t *testing.T) {
		svc := newEmbeddingService(t, "http://127.0.0.1:1", 3)
		_, err := svc.Embed(ctx, "text")
		assert.ErrorIs(t, err, ErrEmbedding)
	})
}

func TestNewEmbeddingService(t *testing.T) {
	t.Run("should require an API key", func(t *testing.T) {
		_, err := NewEmbeddingService(&config.Config{})
		assert.Error(t, err)
	})
}
