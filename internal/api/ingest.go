package api

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/whatsfordinner/backend/internal/service"
)

// IngestionHandler handles recipe ingestion requests
type IngestionHandler struct {
	ingestion *service.IngestionService
}

// NewIngestionHandler creates a new IngestionHandler instance
func NewIngestionHandler(ingestion *service.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestion: ingestion}
}

// RegisterRoutes registers the ingestion routes
func (h *IngestionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/ingest-recipes", h.IngestRecipes)
}

// IngestRecipes ingests a batch of uploaded recipe text files. Every
// file yields one result, in upload order; a file's failure never
// aborts the batch.
func (h *IngestionHandler) IngestRecipes(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one file is required"})
		return
	}

	log.Printf("[Ingest] ingesting %d recipe files", len(files))

	results := make([]IngestRecipeResult, 0, len(files))
	for _, fileHeader := range files {
		content, err := readUpload(fileHeader)
		if err != nil {
			log.Printf("[Ingest] failed to read %s: %v", fileHeader.Filename, err)
			results = append(results, IngestRecipeResult{Error: "failed to read uploaded file"})
			continue
		}

		recipe, err := h.ingestion.Ingest(c.Request.Context(), content, fileHeader.Filename)
		if err != nil {
			log.Printf("[Ingest] failed to ingest %s: %v", fileHeader.Filename, err)
			results = append(results, IngestRecipeResult{Error: err.Error()})
			continue
		}

		results = append(results, IngestRecipeResult{Success: true, Recipe: recipe})
	}

	log.Printf("[Ingest] processed %d recipe files", len(results))
	c.JSON(http.StatusOK, IngestRecipesResponse{Recipes: results})
}

func readUpload(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
