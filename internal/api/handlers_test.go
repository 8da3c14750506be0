package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/whatsfordinner/backend/internal/model"
	"github.com/pageza/whatsfordinner/backend/internal/service"
	"github.com/pageza/whatsfordinner/backend/internal/store"
)

const testDimension = 8

const stirFryRecipe = `Quick Chicken Stir-Fry

Ingredients:
2 chicken breasts, sliced
1 bell pepper
2 tbsp soy sauce

Instructions:
Slice the chicken.
Stir-fry until done.
`

// stubEmbedder derives a deterministic vector from the text bytes
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, testDimension)
	for i, r := range text {
		v[i%testDimension] += float32(r)
	}
	return v, nil
}

func (stubEmbedder) Dimension() int { return testDimension }

type stubCompletion struct{}

func (stubCompletion) Complete(context.Context, string, string) (string, error) {
	return "# Suggested Recipe\n\n1. Cook.", nil
}

type stubVision struct {
	reply string
}

func (s stubVision) DescribeImage(context.Context, []byte, string, string) (string, error) {
	return s.reply, nil
}

func setupRouter(t *testing.T, vision service.VisionProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Recipe{}))

	recipeStore := store.NewRecipeStore(db, testDimension)
	ingestion := service.NewIngestionService(recipeStore, stubEmbedder{})
	recommendations := service.NewRecommendationService(
		recipeStore, stubEmbedder{}, stubCompletion{},
		service.NewVisionService(vision), 3, nil,
	)

	router := gin.New()
	NewHealthHandler(recipeStore).RegisterRoutes(router)
	v1 := router.Group("/api/v1")
	NewRecommendationHandler(recommendations).RegisterRoutes(v1, nil)
	NewIngestionHandler(ingestion).RegisterRoutes(v1)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postFiles(t *testing.T, router *gin.Engine, path, field string, files map[string]string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestRecipes(t *testing.T) {
	t.Run("should ingest a well-formed recipe file", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		w := postFiles(t, router, "/api/v1/ingest-recipes", "files",
			map[string]string{"stir_fry.txt": stirFryRecipe}, "text/plain")
		require.Equal(t, http.StatusOK, w.Code)

		var resp IngestRecipesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Recipes, 1)
		assert.True(t, resp.Recipes[0].Success)
		require.NotNil(t, resp.Recipes[0].Recipe)
		assert.Equal(t, "Quick Chicken Stir-Fry", resp.Recipes[0].Recipe.Title)
	})

	t.Run("should isolate malformed files within a batch", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		w := postFiles(t, router, "/api/v1/ingest-recipes", "files", map[string]string{
			"good.txt": stirFryRecipe,
			"bad.txt":  "not a recipe at all",
		}, "text/plain")
		require.Equal(t, http.StatusOK, w.Code)

		var resp IngestRecipesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Recipes, 2)

		succeeded := 0
		for _, result := range resp.Recipes {
			if result.Success {
				succeeded++
				assert.Empty(t, result.Error)
			} else {
				assert.NotEmpty(t, result.Error)
			}
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("should reject a request with no files", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("note", "empty"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest-recipes", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecommendRecipe(t *testing.T) {
	t.Run("should return a generated recipe", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		postFiles(t, router, "/api/v1/ingest-recipes", "files",
			map[string]string{"stir_fry.txt": stirFryRecipe}, "text/plain")

		w := postJSON(router, "/api/v1/recommend-recipe",
			RecommendRecipeRequest{Ingredients: []string{"chicken", "bell pepper"}})
		require.Equal(t, http.StatusOK, w.Code)

		var resp RecommendRecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Recipe)
	})

	t.Run("should reject an empty ingredient list", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		w := postJSON(router, "/api/v1/recommend-recipe",
			RecommendRecipeRequest{Ingredients: []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend-recipe", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecommendRecipeFromImage(t *testing.T) {
	t.Run("should return detected ingredients with the recipe", func(t *testing.T) {
		router := setupRouter(t, stubVision{reply: "chicken\nbell pepper\n"})

		w := postFiles(t, router, "/api/v1/recommend-recipe-from-image", "image",
			map[string]string{"fridge.jpg": "\xFF\xD8\xFF"}, "image/jpeg")
		require.Equal(t, http.StatusOK, w.Code)

		var resp RecommendRecipeFromImageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"chicken", "bell pepper"}, resp.DetectedIngredients)
		assert.NotEmpty(t, resp.Recipe)
	})

	t.Run("should reject non-image uploads", func(t *testing.T) {
		router := setupRouter(t, stubVision{reply: "chicken\n"})

		w := postFiles(t, router, "/api/v1/recommend-recipe-from-image", "image",
			map[string]string{"notes.txt": "hello"}, "text/plain")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject unsupported image formats", func(t *testing.T) {
		router := setupRouter(t, stubVision{reply: "chicken\n"})

		w := postFiles(t, router, "/api/v1/recommend-recipe-from-image", "image",
			map[string]string{"fridge.bmp": "BM"}, "image/bmp")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should fail when no ingredients are detected", func(t *testing.T) {
		router := setupRouter(t, stubVision{reply: ""})

		w := postFiles(t, router, "/api/v1/recommend-recipe-from-image", "image",
			map[string]string{"fridge.png": "\x89PNG"}, "image/png")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should require the image field", func(t *testing.T) {
		router := setupRouter(t, stubVision{reply: "chicken\n"})

		w := postFiles(t, router, "/api/v1/recommend-recipe-from-image", "files",
			map[string]string{"fridge.jpg": "\xFF\xD8\xFF"}, "image/jpeg")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Run("should report ok with the recipe count", func(t *testing.T) {
		router := setupRouter(t, stubVision{})

		postFiles(t, router, "/api/v1/ingest-recipes", "files",
			map[string]string{"stir_fry.txt": stirFryRecipe}, "text/plain")

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, int64(1), resp.RecipeCount)
	})
}
