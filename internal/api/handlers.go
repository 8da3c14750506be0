package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/whatsfordinner/backend/internal/service"
)

// HealthHandler reports service liveness and corpus size
type HealthHandler struct {
	store service.RecipeStore
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(store service.RecipeStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
}

// Health returns OK with the current recipe count
func (h *HealthHandler) Health(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		log.Printf("[Health] store check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", RecipeCount: count})
}
