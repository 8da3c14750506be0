package api

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/whatsfordinner/backend/internal/service"
)

// maxImageBytes bounds uploaded image size
const maxImageBytes = 10 << 20

// RecommendationHandler handles recipe recommendation requests
type RecommendationHandler struct {
	recommendations *service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler instance
func NewRecommendationHandler(recommendations *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// RegisterRoutes registers the recommendation routes
func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	group := router.Group("")
	if limiter != nil {
		group.Use(limiter)
	}
	group.POST("/recommend-recipe", h.RecommendRecipe)
	group.POST("/recommend-recipe-from-image", h.RecommendRecipeFromImage)
}

// RecommendRecipe recommends a recipe for a typed ingredient list
func (h *RecommendationHandler) RecommendRecipe(c *gin.Context) {
	var req RecommendRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recommendations.Recommend(c.Request.Context(), req.Ingredients)
	if err != nil {
		log.Printf("[Recommend] failed: %v", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RecommendRecipeResponse{Recipe: recipe})
}

// RecommendRecipeFromImage recommends a recipe for ingredients detected
// in an uploaded image
func (h *RecommendationHandler) RecommendRecipeFromImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, please upload an image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read the uploaded image file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read the uploaded image file"})
		return
	}

	detected, recipe, err := h.recommendations.RecommendFromImage(c.Request.Context(), image, contentType)
	if err != nil {
		log.Printf("[Recommend] image path failed: %v", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RecommendRecipeFromImageResponse{
		DetectedIngredients: detected,
		Recipe:              recipe,
	})
}
