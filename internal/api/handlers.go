package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RishiKendai/aegis/internal/config"
	"github.com/RishiKendai/aegis/internal/frontend"
	"github.com/RishiKendai/aegis/internal/infra/redis"
	"github.com/RishiKendai/aegis/internal/metrics"
	"github.com/RishiKendai/aegis/internal/models"
	"github.com/RishiKendai/aegis/internal/plagiarism"
	"github.com/RishiKendai/aegis/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler holds dependencies for handlers
type Handler struct {
	cfg             *config.Config
	registry        *frontend.Registry
	artifactsRepo   *repository.ArtifactsRepository
	resultsRepo     *repository.ResultsRepository
	comparisonsRepo *repository.ComparisonsRepository
	workerPool      *plagiarism.WorkerPool
	redisClient     *redis.Client
	computeSem      chan struct{} // Semaphore for bounded concurrency
	computeTimeout  time.Duration
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	registry *frontend.Registry,
	artifactsRepo *repository.ArtifactsRepository,
	resultsRepo *repository.ResultsRepository,
	comparisonsRepo *repository.ComparisonsRepository,
	workerPool *plagiarism.WorkerPool,
	redisClient *redis.Client,
) *Handler {
	// Create semaphore for bounded concurrency
	sem := make(chan struct{}, cfg.MaxConcurrentCompute)

	return &Handler{
		cfg:             cfg,
		registry:        registry,
		artifactsRepo:   artifactsRepo,
		resultsRepo:     resultsRepo,
		comparisonsRepo: comparisonsRepo,
		workerPool:      workerPool,
		redisClient:     redisClient,
		computeSem:      sem,
		computeTimeout:  cfg.ComputationTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (h *Handler) Compute(c *gin.Context) {
	var req models.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	// Input validation
	if err := validateComputePayload(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_DRIVE_ID",
		})
		return
	}

	// Check if artifacts exist (Edge Case: Missing driveId)
	ctx := c.Request.Context()
	count, err := h.artifactsRepo.CountArtifactsByDriveID(ctx, req.DriveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", req.DriveID).Msg("Failed to check artifacts")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to check artifacts",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if count == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No artifacts found for driveId",
			Code:  "DRIVE_ID_NOT_FOUND",
		})
		return
	}

	// Check if already completed
	latestReport, err := h.resultsRepo.GetLatestReportByDriveID(ctx, req.DriveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", req.DriveID).Msg("Failed to get latest report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to check computation status",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if latestReport != nil && latestReport.Status == "completed" {
		// Update status: Completed
		if err := plagiarism.UpdateStatus(ctx, h.redisClient, req.DriveID, models.StepCompleted); err != nil {
			log.Warn().Err(err).Str("driveId", req.DriveID).Msg("Failed to update completed status")
		}
	}

	// Acquire semaphore (bounded concurrency)
	select {
	case h.computeSem <- struct{}{}:
		// Acquired semaphore
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	// Update status: Initiated
	if err := plagiarism.UpdateStatus(ctx, h.redisClient, req.DriveID, models.StepInitiated); err != nil {
		log.Warn().Err(err).Str("driveId", req.DriveID).Msg("Failed to update initiated status")
	}

	// Return 202 Accepted immediately
	c.JSON(http.StatusAccepted, models.ComputeResponse{
		Step:   models.StepInitiated,
		TestID: req.DriveID,
	})

	// Process asynchronously
	go h.processComputation(req.DriveID)
}

// GetResults returns the latest report and matched regions for a drive.
func (h *Handler) GetResults(c *gin.Context) {
	driveID := c.Param("driveId")
	if driveID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "driveId is required",
			Code:  "INVALID_DRIVE_ID",
		})
		return
	}

	ctx := c.Request.Context()

	report, err := h.resultsRepo.GetLatestReportByDriveID(ctx, driveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to load report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "No report found for driveId",
			Code:  "DRIVE_ID_NOT_FOUND",
		})
		return
	}

	comparisons, err := h.comparisonsRepo.GetComparisonsByDriveID(ctx, driveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to load comparisons")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load comparisons",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":      report,
		"comparisons": comparisons,
	})
}

// processComputation processes computation asynchronously
func (h *Handler) processComputation(driveID string) {
	defer func() { <-h.computeSem }() // Release semaphore

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), h.computeTimeout)
	defer cancel()

	// Create pending report
	pendingReport := &models.TestReport{
		DriveID:           driveID,
		Risk:              "",
		Status:            "pending",
		FlaggedQuestions:  []string{},
		FlaggedCandidates: 0,
		TotalAnalyzed:     0,
	}

	if err := h.resultsRepo.InsertTestReport(ctx, pendingReport); err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to create pending report")
	}

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, driveID, models.StepDeepAnalysis); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update deep-analysis status")
	}

	start := time.Now()
	engineCfg := plagiarism.Config{
		MinimumTokenMatch:          h.cfg.MinimumTokenMatch,
		MergeBuffer:                h.cfg.MergeBuffer,
		MergeLength:                h.cfg.MergeLength,
		Metric:                     plagiarism.SimilarityMetric(h.cfg.SimilarityMetric),
		SimilarityThreshold:        h.cfg.SimilarityThreshold,
		BatchSize:                  h.cfg.BatchSize,
		MaximumNumberOfComparisons: h.cfg.MaximumNumberOfComparisons,
	}

	err := plagiarism.ComputePlagiarism(
		ctx,
		driveID,
		func(language string) (func(plagiarism.TokenType) bool, bool) {
			lang, ok := h.registry.Lookup(language)
			if !ok {
				return nil, false
			}
			return lang.IsExcludedFromMatching, true
		},
		h.artifactsRepo,
		h.resultsRepo,
		h.comparisonsRepo,
		h.workerPool,
		engineCfg,
	)

	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Computation failed")
		h.createFailedReport(ctx, driveID, err.Error())
		metrics.ObserveComputation("failed", time.Since(start))
		return
	}

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, driveID, models.StepCompleted); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update completed status")
	}
	metrics.ObserveComputation("completed", time.Since(start))

	log.Debug().Str("driveId", driveID).Msg("Computation completed successfully")
}

func (h *Handler) createFailedReport(ctx context.Context, driveID, errorMsg string) {
	err := h.resultsRepo.UpdateTestReportByDriveID(ctx, driveID, &models.TestReport{
		DriveID:           driveID,
		Risk:              "",
		Status:            "failed",
		FlaggedQuestions:  []string{},
		FlaggedCandidates: 0,
		TotalAnalyzed:     0,
	})
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Str("reason", errorMsg).Msg("Failed to update failed report")
	}
}

func validateComputePayload(req models.ComputeRequest) error {

	if req.DriveID == "" {
		return fmt.Errorf("driveId is required")
	}

	return nil
}
