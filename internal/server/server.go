package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/whatsfordinner/backend/config"
	"github.com/pageza/whatsfordinner/backend/internal/api"
	"github.com/pageza/whatsfordinner/backend/internal/middleware"
	"github.com/pageza/whatsfordinner/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New assembles the gin engine and routes
func New(
	cfg *config.Config,
	recipeStore service.RecipeStore,
	ingestion *service.IngestionService,
	recommendations *service.RecommendationService,
	redisClient *redis.Client,
) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Duration(cfg.RateLimitWindow) * time.Second,
		Limit:     cfg.RateLimitRequests,
		KeyPrefix: "ratelimit:recommend",
	})

	v1 := router.Group("/api/v1")
	api.NewRecommendationHandler(recommendations).RegisterRoutes(v1, limiter.Middleware())
	api.NewIngestionHandler(ingestion).RegisterRoutes(v1)
	api.NewHealthHandler(recipeStore).RegisterRoutes(router)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start begins serving and blocks until the listener stops
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
