package api

import (
	"github.com/RishiKendai/aegis/internal/config"
	"github.com/RishiKendai/aegis/internal/frontend"
	"github.com/RishiKendai/aegis/internal/infra/redis"
	"github.com/RishiKendai/aegis/internal/plagiarism"
	"github.com/RishiKendai/aegis/internal/repository"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	cfg *config.Config,
	registry *frontend.Registry,
	artifactsRepo *repository.ArtifactsRepository,
	resultsRepo *repository.ResultsRepository,
	comparisonsRepo *repository.ComparisonsRepository,
	workerPool *plagiarism.WorkerPool,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	// Create handler
	handler := NewHandler(cfg, registry, artifactsRepo, resultsRepo, comparisonsRepo, workerPool, redisClient)

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	// Middleware
	router.Use(ErrorHandlerMiddleware())
	router.Use(MetricsMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/compute", handler.Compute)
		api.GET("/results/:driveId", handler.GetResults)
	}

	return router
}
