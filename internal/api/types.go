package api

import "github.com/pageza/whatsfordinner/backend/internal/model"

// RecommendRecipeRequest is the body for text-based recommendations
type RecommendRecipeRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// RecommendRecipeResponse carries the generated Markdown recipe
type RecommendRecipeResponse struct {
	Recipe string `json:"recipe"`
}

// RecommendRecipeFromImageResponse additionally carries the ingredients
// the vision step detected
type RecommendRecipeFromImageResponse struct {
	DetectedIngredients []string `json:"detected_ingredients"`
	Recipe              string   `json:"recipe"`
}

// IngestRecipeResult is the per-file outcome of a batch ingestion
type IngestRecipeResult struct {
	Success bool          `json:"success"`
	Recipe  *model.Recipe `json:"recipe,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// IngestRecipesResponse lists one result per submitted file, in
// submission order
type IngestRecipesResponse struct {
	Recipes []IngestRecipeResult `json:"recipes"`
}

// HealthResponse reports service and corpus status
type HealthResponse struct {
	Status      string `json:"status"`
	RecipeCount int64  `json:"recipe_count"`
}
